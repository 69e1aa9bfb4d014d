// Package api holds the HTTP handlers of the Promptoid API. Handlers decode
// and validate JSON requests, call into the refinement and prompt services,
// and map errors to status codes through MapErrorToStatusCode so internal
// error text never reaches clients.
package api
