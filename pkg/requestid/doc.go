// Package requestid provides request id propagation middleware used for
// log and audit correlation across the middleware chain.
package requestid
