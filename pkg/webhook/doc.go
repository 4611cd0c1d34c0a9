// Package webhook ingests payment-provider notifications and turns their
// at-least-once delivery into exactly-once ledger appends.
//
// The provider-assigned event ID is the idempotency key. Deliveries are
// checked against the ledger before any side effect, and the ledger's unique
// constraint on the event ID is the final authority when two deliveries of
// the same event race. A duplicate delivery is acknowledged without writing
// anything or touching the cache.
//
// Every delivery is acknowledged, including malformed payloads and internal
// failures after the idempotency check. A payload that cannot be processed
// today cannot be processed on redelivery either; refusing it only buys a
// redelivery storm. Failures go to the log, not to the provider.
package webhook
