// Package postgres provides PostgreSQL implementations of the store
// interfaces, connection setup through the pgx database/sql driver, and the
// embedded goose migrations that create the schema.
package postgres
