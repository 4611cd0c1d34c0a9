package promo

import "context"

// Source loads the promotion table. Row order is significant: it is the
// tie-break when several windows are active at once.
type Source interface {
	Load(ctx context.Context) ([]Window, error)
}
