package claims

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Trusted identity headers injected by the upstream gateway. The gateway has
// already authenticated the caller; this package parses, it does not verify.
const (
	HeaderUserID         = "X-User-ID"
	HeaderUserEmail      = "X-Email"
	HeaderOrganizationID = "X-Organization-ID"
)

// User is the authenticated caller for a single request. It is built once
// from the gateway headers, read-only afterwards, and never persisted.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
}

// HasOrganization reports whether the identity carries a default
// organization claim.
func (u User) HasOrganization() bool {
	return u.OrganizationID != nil && *u.OrganizationID != uuid.Nil
}

// Extract builds a User from trusted gateway headers.
//
// A missing identity header is not an error: it returns (zero, false, nil)
// so callers can decide whether authentication is mandatory for the route.
// A present but unparsable identity header returns ErrMalformedIdentity,
// since that indicates a broken gateway rather than an anonymous caller.
func Extract(h http.Header) (User, bool, error) {
	rawID := h.Get(HeaderUserID)
	if rawID == "" {
		return User{}, false, nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return User{}, false, errors.Join(ErrMalformedIdentity, err)
	}

	user := User{
		ID:    id,
		Email: h.Get(HeaderUserEmail),
	}

	if rawOrg := h.Get(HeaderOrganizationID); rawOrg != "" {
		orgID, err := uuid.Parse(rawOrg)
		if err != nil {
			return User{}, false, errors.Join(ErrMalformedIdentity, err)
		}
		user.OrganizationID = &orgID
	}

	return user, true, nil
}
