package cachekey

import "errors"

var (
	// ErrMissingTenant is returned when isolation is mandatory and no
	// tenant id was supplied or present in the request context. Failing
	// closed here is deliberate: a silent fallback to a global key would
	// let tenants read each other's cached data.
	ErrMissingTenant = errors.New("cachekey: no tenant available for isolated cache key")

	// ErrEmptySegment is returned when the resource type or id is empty.
	ErrEmptySegment = errors.New("cachekey: resource type and id must not be empty")
)
