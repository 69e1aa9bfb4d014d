package refinement_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/promptoid/promptoid-api/internal/refinement"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want refinement.ErrorKind
	}{
		{"insufficient balance lower case", "account has insufficient balance", refinement.KindQuotaExhausted},
		{"insufficient balance title case", "Insufficient Balance on account", refinement.KindQuotaExhausted},
		{"rate limit", "Gemini API rate limit exceeded. Please try again later.", refinement.KindRateLimited},
		{"api key", "API key not valid. Please pass a valid API key.", refinement.KindMisconfiguredCredentials},
		{"invalid response", "received invalid response from upstream", refinement.KindUpstreamBadResponse},
		{"model path not found", "models/gemini-pro is not found for this project", refinement.KindModelUnavailable},
		{"api version", "model is not found for API version v1", refinement.KindModelUnavailable},
		{"model not found", "Gemini API model not found. Please check the API version configuration.", refinement.KindModelUnavailable},
		{"balance wins over rate limit", "rate limit hit: insufficient balance", refinement.KindQuotaExhausted},
		{"unrecognized", "connection reset by peer", refinement.KindUnknown},
		{"empty", "", refinement.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refinement.ClassifyMessage(tt.msg))
			// Pure: repeated classification yields the same kind.
			assert.Equal(t, refinement.ClassifyMessage(tt.msg), refinement.ClassifyMessage(tt.msg))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   refinement.ErrorKind
		wantStatus int
	}{
		{
			name:       "nil error",
			err:        nil,
			wantKind:   refinement.KindUnknown,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "provider kind wins over message",
			err:        refinement.NewProviderError(refinement.KindRateLimited, 0, "API key problem", nil),
			wantKind:   refinement.KindRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "status 404 without kind",
			err:        refinement.NewProviderError("", http.StatusNotFound, "something odd", nil),
			wantKind:   refinement.KindModelUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "status 429 with unknown kind",
			err:        refinement.NewProviderError(refinement.KindUnknown, http.StatusTooManyRequests, "busy", nil),
			wantKind:   refinement.KindRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "wrapped provider error",
			err:        fmt.Errorf("calling model: %w", refinement.NewProviderError(refinement.KindQuotaExhausted, 402, "", nil)),
			wantKind:   refinement.KindQuotaExhausted,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("generate: %w", context.DeadlineExceeded),
			wantKind:   refinement.KindTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "malformed response",
			err:        fmt.Errorf("%w: bad json", refinement.ErrMalformedResponse),
			wantKind:   refinement.KindMalformedResponse,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "message fallback",
			err:        errors.New("Insufficient Balance"),
			wantKind:   refinement.KindQuotaExhausted,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown message",
			err:        errors.New("boom"),
			wantKind:   refinement.KindUnknown,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := refinement.Classify(tt.err)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.wantStatus, c.Status)
			assert.NotEmpty(t, c.UserMessage)
		})
	}
}

func TestClassificationForUnknownKind(t *testing.T) {
	c := refinement.ClassificationFor(refinement.ErrorKind("made_up"))
	assert.Equal(t, refinement.KindUnknown, c.Kind)
	assert.Equal(t, "I couldn't refine your prompt due to a technical issue.", c.UserMessage)
}

func TestRefinementErrorDiagnosticText(t *testing.T) {
	err := &refinement.RefinementError{
		Classification: refinement.ClassificationFor(refinement.KindRateLimited),
		OriginalPrompt: "Write a haiku",
		Err:            errors.New("429"),
	}

	assert.Equal(t,
		"The AI service is currently experiencing high demand. Please try again in a few minutes. "+
			"Please try again later or check your API configuration.\n\nOriginal prompt: Write a haiku",
		err.DiagnosticText())
	assert.Contains(t, err.Error(), "rate_limited")
}
