package promo

import (
	"context"
	"slices"
	"sync"
)

type inMemSource struct {
	mu      sync.RWMutex
	windows []Window
}

// NewInMemSource returns an in-memory Source holding a copy of the given
// windows. Copying keeps later mutations by the caller from changing the
// stored row order.
func NewInMemSource(windows ...Window) Source {
	return &inMemSource{windows: slices.Clone(windows)}
}

func (s *inMemSource) Load(ctx context.Context) ([]Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.windows), nil
}
