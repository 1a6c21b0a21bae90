package tenant

import "errors"

var (
	// ErrContextMissing is returned when no organization id can be derived
	// from the identity claim, the path, or the query string. The caller
	// cannot proceed without establishing scope, so this surfaces as an
	// authentication-required failure.
	ErrContextMissing = errors.New("tenant: no organization context in request")

	// ErrAccessDenied is returned when an organization id was found but the
	// caller is not a member of that organization.
	ErrAccessDenied = errors.New("tenant: user is not a member of organization")

	// ErrInvalidOrganizationID is returned when a request names an
	// organization explicitly but the value is not a valid identifier.
	ErrInvalidOrganizationID = errors.New("tenant: invalid organization id")

	// ErrNoContextAttached is returned by RequireContext when a handler that
	// demands tenant scope is reached without one.
	ErrNoContextAttached = errors.New("tenant: no tenant context attached")
)
