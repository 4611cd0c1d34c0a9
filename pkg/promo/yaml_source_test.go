package promo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/promo"
)

func writePromoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "promotions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAMLSource_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("parses rows in stored order", func(t *testing.T) {
		t.Parallel()
		path := writePromoFile(t, `
promotions:
  - active_until: "2026-09-15"
    type: DISCOUNT
    promo_code_id: promo_123
    message: "Launch week sale"
    sale_price_text: "$9"
    original_price_text: "$19"
  - active_until: "2026-12-31"
    type: FREE
    message: "Holiday giveaway"
`)
		windows, err := promo.NewYAMLSource(path).Load(ctx)
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.Equal(t, promo.TypeDiscount, windows[0].Type)
		assert.Equal(t, "promo_123", windows[0].PromoCodeID)
		assert.Equal(t, 2026, windows[0].ActiveUntil.Year())
		assert.Equal(t, promo.TypeFree, windows[1].Type)
	})

	t.Run("unparseable date yields a zero date, not an error", func(t *testing.T) {
		t.Parallel()
		path := writePromoFile(t, `
promotions:
  - active_until: "not a date"
    type: FREE
  - active_until: "2026-10-01"
    type: DISCOUNT
`)
		windows, err := promo.NewYAMLSource(path).Load(ctx)
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.True(t, windows[0].ActiveUntil.IsZero())
		assert.False(t, windows[1].ActiveUntil.IsZero())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := promo.NewYAMLSource("/nonexistent/promotions.yaml").Load(ctx)
		assert.ErrorIs(t, err, promo.ErrSourceUnavailable)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := writePromoFile(t, "promotions: [")
		_, err := promo.NewYAMLSource(path).Load(ctx)
		assert.ErrorIs(t, err, promo.ErrMalformedTable)
	})
}
