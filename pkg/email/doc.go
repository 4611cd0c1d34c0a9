// Package email sends transactional mail, primarily the purchase receipt
// dispatched after a completed payment.
//
// Production uses Postmark; development environments use DevSender, which
// writes each message to disk as HTML plus JSON metadata so receipts can be
// inspected without a mail provider.
package email
