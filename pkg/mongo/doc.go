// Package mongo connects to MongoDB from environment configuration with
// startup retries and exposes a health probe. The audit MongoStorage
// builds on the client returned here.
package mongo
