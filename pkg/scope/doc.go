// Package scope appends tenant-equality predicates to squirrel query
// builders so that every query leaving a handler is constrained to the
// organization resolved for the request.
//
// The helpers assume the tenant.Context they receive is valid: the isolation
// middleware rejects requests before an invalid context can exist. They are
// pure transformations and safe to apply more than once.
package scope
