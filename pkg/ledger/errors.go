package ledger

import "errors"

var (
	ErrDuplicateEvent = errors.New("ledger: payment event already recorded")
	ErrRecordNotFound = errors.New("ledger: record not found")
	ErrMissingEmail   = errors.New("ledger: record email is required")
	ErrMissingEventID = errors.New("ledger: record event ID is required")

	ErrStoreUnavailable = errors.New("ledger: store unavailable")
)
