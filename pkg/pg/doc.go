// Package pg bootstraps the PostgreSQL layer behind the payment ledger:
// pooled connections via pgx/v5 with startup retries, goose schema
// migrations, a health probe, and error classification helpers.
//
// The ledger's idempotency guarantee ultimately rests on a unique index, so
// IsDuplicateKeyError (SQLSTATE 23505) is the one helper the rest of the
// system genuinely depends on; everything else is bootstrap convenience.
package pg
