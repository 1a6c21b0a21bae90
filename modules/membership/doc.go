// Package membership manages user-organization relationships: the Postgres
// store behind the tenant resolver's membership checks, a cached checker
// with explicit invalidation, and an HTTP API for managing members of the
// current organization.
package membership
