package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/requestid"
)

func serve(t *testing.T, headerID string) (ctxID, echoedID string) {
	t.Helper()

	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	if headerID != "" {
		req.Header.Set(requestid.Header, headerID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("mints a UUID when the client sends none", func(t *testing.T) {
		t.Parallel()
		ctxID, echoed := serve(t, "")

		require.NotEmpty(t, ctxID)
		assert.Equal(t, ctxID, echoed)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err)
	})

	t.Run("reuses a well-formed client ID", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"delivery-42",
			"evt_abc_retry_3",
			uuid.NewString(),
		} {
			ctxID, echoed := serve(t, id)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, echoed)
		}
	})

	t.Run("replaces IDs unsafe to log verbatim", func(t *testing.T) {
		t.Parallel()
		unsafe := []string{
			"has spaces",
			"slash/id",
			"newline\nid",
			"<script>alert(1)</script>",
			strings.Repeat("a", 200), // over the length bound
		}
		for _, id := range unsafe {
			ctxID, echoed := serve(t, id)
			require.NotEmpty(t, ctxID)
			assert.NotEqual(t, id, ctxID)
			assert.Equal(t, ctxID, echoed)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through the context", func(t *testing.T) {
		t.Parallel()
		ctx := requestid.WithContext(context.Background(), "delivery-42")
		assert.Equal(t, "delivery-42", requestid.FromContext(ctx))
	})

	t.Run("empty without an attached ID", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, requestid.FromContext(context.Background()))
	})
}
