// Package httpserver wraps net/http with graceful shutdown, signal handling,
// and probe endpoints for the entitlement API and webhook listener.
package httpserver
