// Package tenant enforces per-request organization isolation for
// multi-tenant HTTP services.
//
// The pipeline has three parts. Sources derive a candidate organization id
// from the request in a fixed priority order: the organization claim
// asserted with the identity, then a path parameter, then a query parameter;
// the first candidate wins and weaker sources are never consulted. The
// Resolver verifies the caller's membership in that organization (optionally
// through a bounded TTL decision cache) and produces a fully populated
// Context. The Middleware wires both into the request lifecycle, exempting
// an allow-list of public paths and attaching the Context for handlers and
// query scoping.
//
//	checker := membership.NewStore(pool)
//	resolver := tenant.NewResolver(checker,
//		tenant.WithMembershipCache(tenant.NewMemoryCache()),
//	)
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Use(claims.Middleware())
//	r.Use(tenant.Middleware(resolver))
//
// Correctness does not depend on concurrency control: no state is shared
// between requests, and cross-tenant leakage is prevented purely by the
// mandatory membership check and the scoped predicates built from Context.
package tenant
