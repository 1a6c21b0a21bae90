// Package core provides the shared HTTP response vocabulary for the toolkit:
// typed HTTP errors with stable machine-readable keys and a JSON response
// envelope used by middleware error handlers and module routers.
package core
