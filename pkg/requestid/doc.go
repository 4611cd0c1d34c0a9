// Package requestid attaches a correlation ID to every API request so log
// records for one user interaction (or one webhook delivery) can be tied
// together. A client-supplied X-Request-ID is validated and reused; anything
// else gets a fresh UUID.
package requestid
