// Package shared holds the request decoding, response writing and context
// helpers used by both the api handlers and the api middleware.
package shared
