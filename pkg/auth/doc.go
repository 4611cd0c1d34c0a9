// Package auth verifies bearer access tokens with the identity provider and
// resolves them to a verified email.
//
// Identity is established per request: the client sends the OAuth access
// token it obtained locally, the backend round-trips it to the provider's
// userinfo endpoint, and only the provider's answer is trusted. Tokens carry
// no local session state. CachingVerifier shaves the round-trip for repeat
// requests within a short TTL.
package auth
