package cache

import "errors"

var (
	ErrCacheUnavailable = errors.New("cache: backend unavailable")
	ErrEncodeValue      = errors.New("cache: failed to encode value")
)
