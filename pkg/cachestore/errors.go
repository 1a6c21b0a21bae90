package cachestore

import "errors"

var (
	// ErrBackend wraps failures of the underlying cache backend.
	ErrBackend = errors.New("cache backend failure")

	// ErrEncode wraps serialization failures when caching typed values.
	ErrEncode = errors.New("failed to encode cached value")

	// ErrDecode wraps deserialization failures when reading typed values.
	ErrDecode = errors.New("failed to decode cached value")
)
