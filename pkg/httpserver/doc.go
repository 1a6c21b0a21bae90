// Package httpserver runs an http.Server with graceful shutdown, env-based
// configuration, and a probe-aggregating health handler.
package httpserver
