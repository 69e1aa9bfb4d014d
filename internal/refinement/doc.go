// Package refinement implements the prompt refinement pipeline: it builds the
// instructions sent to a generative language model, parses and normalizes the
// model's output, classifies provider failures into user-facing messages, and
// degrades to fixed fallback content when the model is unavailable.
//
// The package is provider-agnostic. Callers supply a Provider implementation
// (see internal/platform/gemini) or nil to run in local mode, where no network
// calls are made and deterministic placeholder content is returned.
package refinement
