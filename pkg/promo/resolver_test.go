package promo_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/promo"
)

type countingSource struct {
	windows []promo.Window
	loads   atomic.Int64
}

func (s *countingSource) Load(ctx context.Context) ([]promo.Window, error) {
	s.loads.Add(1)
	return s.windows, nil
}

func TestResolver_Active(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("no windows means no promotion", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(), promo.WithClock(clock))
		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("discount window five days out yields six days left", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(promo.Window{
			ActiveUntil: now.AddDate(0, 0, 5),
			Type:        promo.TypeDiscount,
			PromoCodeID: "P1",
		}), promo.WithClock(clock))

		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.True(t, snapshot.HasPromo)
		assert.Equal(t, promo.TypeDiscount, snapshot.Type)
		assert.Equal(t, "P1", snapshot.PromoCodeID)
		assert.Equal(t, 6, snapshot.DaysLeft)
	})

	t.Run("end date is inclusive through its whole day", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(promo.Window{
			ActiveUntil: now, // expires today, still active
			Type:        promo.TypeFree,
		}), promo.WithClock(clock))

		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, 1, snapshot.DaysLeft)
	})

	t.Run("expired window is skipped", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(promo.Window{
			ActiveUntil: now.AddDate(0, 0, -1),
			Type:        promo.TypeFree,
		}), promo.WithClock(clock))

		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("first active row wins over later overlapping rows", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(
			promo.Window{ActiveUntil: now.AddDate(0, 0, -3), Type: promo.TypeFree},
			promo.Window{ActiveUntil: now.AddDate(0, 0, 2), Type: promo.TypeDiscount, PromoCodeID: "first"},
			promo.Window{ActiveUntil: now.AddDate(0, 0, 9), Type: promo.TypeDiscount, PromoCodeID: "second"},
		), promo.WithClock(clock))

		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, "first", snapshot.PromoCodeID)
	})

	t.Run("rows with missing dates are skipped", func(t *testing.T) {
		t.Parallel()
		r := promo.NewResolver(promo.NewInMemSource(
			promo.Window{Type: promo.TypeFree}, // no date
			promo.Window{ActiveUntil: now.AddDate(0, 0, 1), Type: promo.TypeDiscount, PromoCodeID: "ok"},
		), promo.WithClock(clock))

		snapshot, err := r.Active(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, "ok", snapshot.PromoCodeID)
	})

	t.Run("decision is cached, including the no-promo outcome", func(t *testing.T) {
		t.Parallel()
		src := &countingSource{}
		r := promo.NewResolver(src, promo.WithClock(clock))

		for range 5 {
			_, err := r.Active(ctx)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(1), src.loads.Load(), "table is read once per cache window")
	})
}

func TestResolver_FreeWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	r := promo.NewResolver(promo.NewInMemSource(promo.Window{
		ActiveUntil: now.AddDate(0, 0, 10),
		Type:        promo.TypeFree,
		Message:     "Free week for everyone",
		ButtonText:  "Claim",
	}), promo.WithClock(func() time.Time { return now }))

	snapshot, err := r.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, promo.TypeFree, snapshot.Type)
	assert.Equal(t, "Free week for everyone", snapshot.Message)
	assert.Equal(t, 11, snapshot.DaysLeft)
}
