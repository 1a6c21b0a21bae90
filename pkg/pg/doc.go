// Package pg bootstraps the PostgreSQL layer: a pgx/v5 connection pool
// configured from the environment, goose schema migrations, a health probe,
// and error classifiers for the constraint violations application code
// cares about.
package pg
