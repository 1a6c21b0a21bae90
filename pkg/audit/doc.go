// Package audit records who did what within which organization.
//
// A Logger pulls the tenant, user, and request id from the request
// context, so handlers only name the action and the resource acted on.
// Storage backends exist for Postgres and MongoDB; AsyncWriter batches
// writes for high-volume services.
package audit
