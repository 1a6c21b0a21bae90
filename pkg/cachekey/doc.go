// Package cachekey derives the namespaced string keys used for all cache
// access: a fixed prefix, a tenant segment, resource type and id, a schema
// version, and an optional suffix, joined by colons.
//
// Two invariants matter. Determinism: the same inputs always produce the
// same key. Tenant separation: the same resource cached for two different
// tenants always lands under two different keys, and when isolation is
// mandatory a key cannot be built at all without a tenant.
package cachekey
