// Package claims converts trusted identity headers injected by an upstream
// gateway into a typed request-scoped User value.
//
// The trust boundary sits in front of this package: the gateway has already
// authenticated the caller and asserts identity via X-User-ID, X-Email,
// and optionally X-Organization-ID. Extraction distinguishes absence (no
// identity header, an anonymous request) from malformation (a header that
// cannot be parsed, a gateway bug surfaced as ErrMalformedIdentity).
//
// Deployments that terminate authentication elsewhere must add their own
// header signature verification before this middleware runs.
package claims
