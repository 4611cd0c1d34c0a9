// Package ledger is the authoritative append-only record of completed
// payments. Each record links a purchaser email to the unique payment event
// that confirmed it; the uniqueness of the event ID is the idempotency
// invariant the webhook ingestor relies on.
//
// Three Store implementations are provided: MemoryStore for tests and
// single-process setups, PostgresStore on pgx with a UNIQUE constraint, and
// MongoStore with a unique index. All of them reject a duplicate event ID
// atomically with ErrDuplicateEvent.
package ledger
