// Package entitlement decides, for a verified email, whether the user is
// premium right now.
//
// The decision procedure is fixed: an email present in the payment ledger is
// paid, full stop; otherwise the currently-active promotion (if any) shapes
// the outcome. A FREE window grants free_promo, a DISCOUNT window keeps
// not_premium but attaches the offer snapshot, and no window means a bare
// not_premium. Absence from the ledger is a normal outcome, never an error.
//
// The paid-email set is cached process-wide for an hour and removed, not
// merely expired, the moment the webhook ingestor appends a new payment.
package entitlement
