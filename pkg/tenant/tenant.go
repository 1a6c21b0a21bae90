package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Context is the tenant scope enforced for one request: the organization the
// request operates on and the user it was resolved for. Both fields are
// required; a Context is either fully populated or never attached to a
// request. It lives for the duration of one request only.
type Context struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
}

// Valid reports whether both identifiers are set.
func (c Context) Valid() bool {
	return c.OrganizationID != uuid.Nil && c.UserID != uuid.Nil
}

// MembershipChecker answers whether a user belongs to an organization. It is
// a read-only dependency; retry and timeout policy belong to the
// implementation, not to the resolver calling it.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
}

// MembershipCheckerFunc adapts a function to the MembershipChecker interface.
type MembershipCheckerFunc func(ctx context.Context, userID, orgID uuid.UUID) (bool, error)

// IsMember calls the function.
func (f MembershipCheckerFunc) IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	return f(ctx, userID, orgID)
}
