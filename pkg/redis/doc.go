// Package redis connects to Redis from environment configuration with
// startup retries and exposes a health probe. The cache layer in
// pkg/cachestore builds on the client returned here.
package redis
