// Package handler exposes the HTTP surface of the entitlement service: the
// status and checkout endpoints consumed by the browser extension, and the
// secret-gated webhook endpoint consumed by the payment provider.
package handler
