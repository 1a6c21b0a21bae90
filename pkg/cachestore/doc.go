// Package cachestore provides cache backends keyed by tenant-scoped keys.
//
// Store is the byte-level interface with Redis and in-memory
// implementations. TenantCache layers JSON encoding and cachekey-derived
// keys on top, so application code caches typed values without ever
// constructing a raw key, and cannot accidentally share an entry across
// tenants.
package cachestore
