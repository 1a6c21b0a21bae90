package claims

import "errors"

var (
	// ErrMalformedIdentity is returned when a trusted identity header is
	// present but cannot be parsed. This points at a gateway
	// misconfiguration, not an anonymous caller.
	ErrMalformedIdentity = errors.New("claims: malformed identity header")

	// ErrNoUserInContext is returned when an identity is required but none
	// was attached to the request.
	ErrNoUserInContext = errors.New("claims: no user in context")
)
