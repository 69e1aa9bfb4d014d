package refinement

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInstruction is returned by providers when asked to send an empty instruction.
	ErrEmptyInstruction = errors.New("instruction cannot be empty")

	// ErrMalformedResponse is returned when model output cannot be decoded into
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrContentBlocked is returned when the model withholds output because of
	// safety filtering.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// ErrorKind identifies a category of provider failure.
type ErrorKind string

const (
	KindUnknown                  ErrorKind = "unknown"
	KindQuotaExhausted           ErrorKind = "quota_exhausted"
	KindRateLimited              ErrorKind = "rate_limited"
	KindMisconfiguredCredentials ErrorKind = "misconfigured_credentials"
	KindUpstreamBadResponse      ErrorKind = "upstream_bad_response"
	KindModelUnavailable         ErrorKind = "model_unavailable"
	KindMalformedResponse        ErrorKind = "malformed_response"
	KindTransport                ErrorKind = "transport_failure"
	KindTimeout                  ErrorKind = "timeout"
)

// ProviderError is returned by Provider implementations. StatusCode carries
// the upstream HTTP-like status when the provider reported one.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// NewProviderError creates a new ProviderError.
func NewProviderError(kind ErrorKind, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RefinementError is returned by Service.RefinePrompt when the provider call
// fails. It carries the classification used by the HTTP layer.
type RefinementError struct {
	Classification Classification
	OriginalPrompt string
	Err            error
}

// Error implements the error interface.
func (e *RefinementError) Error() string {
	return fmt.Sprintf("prompt refinement failed (%s): %v", e.Classification.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *RefinementError) Unwrap() error {
	return e.Err
}

// DiagnosticText renders the failure the way existing clients display it in
// place of a refined prompt.
func (e *RefinementError) DiagnosticText() string {
	return fmt.Sprintf(
		"%s Please try again later or check your API configuration.\n\nOriginal prompt: %s",
		e.Classification.UserMessage,
		e.OriginalPrompt,
	)
}
