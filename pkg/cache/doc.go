// Package cache provides the process-wide entitlement caches: a small Cache
// interface with get/set/delete semantics and per-entry TTLs, an in-process
// TTLCache, and a Redis-backed implementation for multi-process deployments.
//
// Callers own their key names and TTLs. The entitlement service uses two fixed
// keys: the paid-email set (long TTL, deleted the instant a payment lands) and
// the resolved promotion (short TTL, time-expiry only).
package cache
