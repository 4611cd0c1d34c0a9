// Package client is the extension-side view of entitlement: a tamper-scoped
// local cache of the last PAID decision, a pending-payment flag, and a
// retrying HTTP caller for the status endpoint.
//
// The local entry is only a fast path. It is honored when its email matches
// the signed-in identity, its status is PAID, it is younger than 24 hours,
// and no checkout is awaiting confirmation. Everything else goes to the
// backend, and a backend outage degrades to the last known decision (or
// not_premium) instead of an error screen.
package client
