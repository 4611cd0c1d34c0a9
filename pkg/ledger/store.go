package ledger

import "context"

// Store is the append-only persistence surface for payment records.
//
// Append enforces the idempotency invariant: a second record with an already
// stored EventID returns ErrDuplicateEvent and writes nothing. Implementations
// must make the duplicate check and the append atomic with respect to each
// other, so two concurrent deliveries of the same event cannot both land.
type Store interface {
	// Append writes a new record. Returns ErrDuplicateEvent when a record
	// with the same EventID already exists.
	Append(ctx context.Context, record Record) error

	// List returns all records in insertion order.
	List(ctx context.Context) ([]Record, error)

	// FindByEventID returns the record with the exact event ID, or
	// ErrRecordNotFound.
	FindByEventID(ctx context.Context, eventID string) (*Record, error)

	// Emails returns the set of normalized emails with at least one payment.
	Emails(ctx context.Context) (map[string]struct{}, error)
}
