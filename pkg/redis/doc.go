// Package redis connects to the Redis instance backing the shared caches
// (paid-email set, promotion decision, verified-token cache) when the service
// runs with more than one process. Single-process deployments skip it and use
// the in-memory cache instead.
package redis
