// Package gemini provides an implementation of refinement.Provider backed by
// Google's Gemini API through the google.golang.org/genai SDK.
//
// Every call is bounded by the configured request timeout and is attempted
// exactly once. SDK errors are translated into *refinement.ProviderError so the
// refinement pipeline can classify them from structured status codes rather
// than message text.
package gemini
