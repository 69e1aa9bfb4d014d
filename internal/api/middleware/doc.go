// Package middleware provides the chi middleware of the Promptoid API:
// request tracing, bearer-token authentication and per-user rate limiting.
package middleware
