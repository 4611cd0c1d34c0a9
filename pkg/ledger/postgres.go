package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresStore persists payment records in a payments table with a UNIQUE
// constraint on event_id. The constraint is what makes concurrent duplicate
// appends safe: the second insert fails at the database, not in Go code.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an established pgx pool. The schema is applied by
// the goose migrations under /migrations.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("ledger: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO payments (id, email, purchased_at, event_id) VALUES ($1, $2, $3, $4)`,
		record.ID, record.Email, record.PurchasedAt, record.EventID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEvent
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, purchased_at, event_id FROM payments ORDER BY purchased_at, event_id`,
	)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Email, &r.PurchasedAt, &r.EventID); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return records, nil
}

func (s *PostgresStore) FindByEventID(ctx context.Context, eventID string) (*Record, error) {
	var r Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, purchased_at, event_id FROM payments WHERE event_id = $1`,
		eventID,
	).Scan(&r.ID, &r.Email, &r.PurchasedAt, &r.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &r, nil
}

func (s *PostgresStore) Emails(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT email FROM payments`)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	emails := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		emails[email] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return emails, nil
}
