package membership

import "errors"

var (
	// ErrNotFound indicates no membership exists for the user and organization.
	ErrNotFound = errors.New("membership not found")

	// ErrAlreadyMember indicates the user already belongs to the organization.
	ErrAlreadyMember = errors.New("user is already a member of the organization")

	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("invalid membership role")

	// ErrStorage wraps backend failures.
	ErrStorage = errors.New("membership storage failure")
)
