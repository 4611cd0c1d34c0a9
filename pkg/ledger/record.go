package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a completed one-time payment. Records are immutable once written:
// the store appends them exactly once per payment event and never updates or
// deletes them.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PurchasedAt time.Time `json:"purchased_at"`
	EventID     string    `json:"event_id"`
}

// NewRecord builds a Record for a confirmed payment event. The email is
// normalized so ledger lookups match identity-provider emails byte-for-byte.
func NewRecord(email, eventID string, purchasedAt time.Time) Record {
	return Record{
		ID:          uuid.New(),
		Email:       NormalizeEmail(email),
		PurchasedAt: purchasedAt.UTC(),
		EventID:     strings.TrimSpace(eventID),
	}
}

// Validate reports whether the record carries everything the ledger requires.
func (r Record) Validate() error {
	if r.Email == "" {
		return ErrMissingEmail
	}
	if r.EventID == "" {
		return ErrMissingEventID
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. Entitlement treats the
// email as the primary key, so every write and lookup goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
