// Package mongo connects to the MongoDB deployment backing the document
// variant of the payment ledger. Deployments pick exactly one ledger backend
// (Postgres, MongoDB, or in-memory for tests); this package only exists for
// the MongoDB choice.
package mongo
