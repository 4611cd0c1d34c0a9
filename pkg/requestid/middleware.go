package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header carries the correlation ID. Payment-provider webhook deliveries and
// extension requests alike may supply their own so retries of the same
// delivery line up in the logs; anything missing or unusable gets a fresh
// UUID.
const Header = "X-Request-ID"

// maxIDLen bounds client-supplied IDs so a hostile header cannot bloat every
// log line it touches.
const maxIDLen = 128

// Middleware ensures every request carries a usable correlation ID, echoes it
// back in the response, and exposes it via FromContext.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !usable(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// usable reports whether a client-supplied ID is safe to log verbatim:
// non-empty, bounded, and limited to alphanumerics, '-' and '_'. UUIDs pass.
func usable(id string) bool {
	if id == "" || len(id) > maxIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
