package webhook

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/email"
	"github.com/dmitrymomot/entitlekit/pkg/ledger"
	"github.com/dmitrymomot/entitlekit/pkg/logger"
)

// Result classifies what Process did with a delivery. Every result is
// acknowledged to the provider; the classification exists for logging and
// metrics, not for flow control on the provider side.
type Result string

const (
	// ResultRecorded means a new payment row was appended to the ledger.
	ResultRecorded Result = "recorded"
	// ResultDuplicate means the event ID was already in the ledger; nothing changed.
	ResultDuplicate Result = "duplicate"
	// ResultIgnored means the event type is not one this service acts on.
	ResultIgnored Result = "ignored"
	// ResultMalformed means the payload could not be parsed as an event.
	ResultMalformed Result = "malformed"
	// ResultMissingReference means a completed checkout carried no purchaser email.
	ResultMissingReference Result = "missing_reference"
	// ResultFailed means an internal dependency failed. Still acknowledged:
	// surfacing it would only trigger an infinite redelivery loop.
	ResultFailed Result = "failed"
)

// PaidSetInvalidator removes the cached paid-email set after a new payment
// lands, so the next status check sees it immediately.
type PaidSetInvalidator interface {
	InvalidatePaidSet(ctx context.Context) error
}

// Ingestor turns at-least-once webhook deliveries into exactly-once ledger
// appends.
type Ingestor interface {
	// Process handles one raw delivery. The returned error is diagnostic
	// only: callers acknowledge the delivery regardless of the outcome.
	// The acknowledgment layer never reflects internal processing failures.
	Process(ctx context.Context, payload []byte) (Result, error)
}

type ingestor struct {
	store       ledger.Store
	invalidator PaidSetInvalidator
	sender      email.Sender
	productName string
	supportURL  string
	clock       func() time.Time
	log         *slog.Logger
}

// Option configures the ingestor.
type Option func(*ingestor)

// WithReceipts enables a best-effort purchase receipt email after each newly
// recorded payment. Receipt failures never affect the delivery outcome.
func WithReceipts(sender email.Sender, productName, supportURL string) Option {
	return func(i *ingestor) {
		if sender != nil {
			i.sender = sender
			i.productName = productName
			i.supportURL = supportURL
		}
	}
}

// WithClock overrides the purchase timestamp source. Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(i *ingestor) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// WithLogger sets the logger for delivery outcomes.
func WithLogger(log *slog.Logger) Option {
	return func(i *ingestor) {
		if log != nil {
			i.log = log
		}
	}
}

// NewIngestor creates a webhook ingestor writing to the given ledger.
// Panics if store or invalidator is nil.
func NewIngestor(store ledger.Store, invalidator PaidSetInvalidator, opts ...Option) Ingestor {
	if store == nil {
		panic("webhook: ledger store is required")
	}
	if invalidator == nil {
		panic("webhook: paid-set invalidator is required")
	}

	i := &ingestor{
		store:       store,
		invalidator: invalidator,
		clock:       time.Now,
		log:         logger.Noop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *ingestor) Process(ctx context.Context, payload []byte) (Result, error) {
	event, err := ParseEvent(payload)
	if err != nil {
		// A payload that never parses will never parse on redelivery either,
		// so retrying is pointless. Acknowledge and keep the bytes in the log.
		i.log.WarnContext(ctx, "unparseable webhook payload", "error", err, "payload_size", len(payload))
		return ResultMalformed, err
	}
	if event.ID == "" {
		i.log.WarnContext(ctx, "webhook event without an ID", "type", event.Type)
		return ResultMalformed, ledger.ErrMissingEventID
	}

	if event.Type != EventCheckoutCompleted {
		i.log.DebugContext(ctx, "ignoring webhook event", "type", event.Type, "event_id", event.ID)
		return ResultIgnored, nil
	}

	// Cheap duplicate check before touching anything else. The unique
	// constraint on Append is still the authority; this just short-circuits
	// the common redelivery case.
	if _, err := i.store.FindByEventID(ctx, event.ID); err == nil {
		i.log.InfoContext(ctx, "duplicate webhook delivery", "event_id", event.ID)
		return ResultDuplicate, nil
	} else if !errors.Is(err, ledger.ErrRecordNotFound) {
		return ResultFailed, err
	}

	purchaser := ledger.NormalizeEmail(event.PurchaserEmail())
	if purchaser == "" {
		// Without a purchaser email the payment cannot be attributed.
		// Redelivery would carry the same empty field, so acknowledge and
		// leave reconciliation to support tooling.
		i.log.ErrorContext(ctx, "completed checkout without purchaser reference", "event_id", event.ID)
		return ResultMissingReference, nil
	}

	record := ledger.NewRecord(purchaser, event.ID, i.clock())
	if err := i.store.Append(ctx, record); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEvent) {
			// Lost the race against a concurrent delivery of the same event.
			i.log.InfoContext(ctx, "duplicate webhook delivery", "event_id", event.ID)
			return ResultDuplicate, nil
		}
		return ResultFailed, err
	}

	// The payment is durable from here on; everything below is best-effort.
	if err := i.invalidator.InvalidatePaidSet(ctx); err != nil {
		i.log.ErrorContext(ctx, "paid-set invalidation failed, cache will expire on TTL",
			"event_id", event.ID, "error", err)
	}

	if i.sender != nil {
		if err := email.SendReceipt(ctx, i.sender, email.Receipt{
			Email:       purchaser,
			ProductName: i.productName,
			PurchasedAt: record.PurchasedAt,
			SupportURL:  i.supportURL,
		}); err != nil {
			i.log.ErrorContext(ctx, "receipt email failed", "event_id", event.ID, "error", err)
		}
	}

	i.log.InfoContext(ctx, "payment recorded", "event_id", event.ID)
	return ResultRecorded, nil
}
