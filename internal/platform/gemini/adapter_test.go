package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/promptoid/promptoid-api/internal/config"
	"github.com/promptoid/promptoid-api/internal/refinement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockGenerator struct {
	GenerateContentFn func(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	calls int
}

func (m *mockGenerator) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.calls++
	return m.GenerateContentFn(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:          "test-key",
		ModelName:             "gemini-1.5-flash",
		APIVersion:            "v1",
		QuestionsTemperature:  0.7,
		RequestTimeoutSeconds: 5,
	}
}

func testAdapter(gen contentGenerator) *Adapter {
	return newAdapter(gen, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), testConfig())
}

func TestGenerate(t *testing.T) {
	gen := &mockGenerator{
		GenerateContentFn: func(
			ctx context.Context,
			model string,
			contents []*genai.Content,
			cfg *genai.GenerateContentConfig,
		) (*genai.GenerateContentResponse, error) {
			assert.Equal(t, "gemini-1.5-flash", model)
			require.Len(t, contents, 1)
			require.Len(t, contents[0].Parts, 1)
			assert.Equal(t, "refine this", contents[0].Parts[0].Text)
			assert.Nil(t, cfg)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return textResponse("A refined prompt"), nil
		},
	}

	text, err := testAdapter(gen).Generate(context.Background(), "refine this")

	require.NoError(t, err)
	assert.Equal(t, "A refined prompt", text)
}

func TestGenerateEmptyInstruction(t *testing.T) {
	gen := &mockGenerator{}

	_, err := testAdapter(gen).Generate(context.Background(), "   ")

	assert.ErrorIs(t, err, refinement.ErrEmptyInstruction)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateStructured(t *testing.T) {
	t.Run("declares JSON output and strips fences", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateContentFn: func(
				_ context.Context,
				_ string,
				_ []*genai.Content,
				cfg *genai.GenerateContentConfig,
			) (*genai.GenerateContentResponse, error) {
				require.NotNil(t, cfg)
				assert.Equal(t, "application/json", cfg.ResponseMIMEType)
				require.NotNil(t, cfg.Temperature)
				assert.InDelta(t, 0.7, *cfg.Temperature, 0.0001)
				return textResponse("```json\n{\"questions\":[]}\n```"), nil
			},
		}

		raw, err := testAdapter(gen).GenerateStructured(context.Background(), "questions please")

		require.NoError(t, err)
		assert.JSONEq(t, `{"questions":[]}`, string(raw))
	})

	t.Run("non-JSON output is malformed", func(t *testing.T) {
		gen := &mockGenerator{
			GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return textResponse("Here are your questions: ..."), nil
			},
		}

		raw, err := testAdapter(gen).GenerateStructured(context.Background(), "questions please")

		assert.Nil(t, raw)
		assert.ErrorIs(t, err, refinement.ErrMalformedResponse)
		assert.Equal(t, refinement.KindMalformedResponse, refinement.Classify(err).Kind)
	})
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   refinement.ErrorKind
		wantStatus int
	}{
		{
			name:       "rate limited",
			err:        genai.APIError{Code: http.StatusTooManyRequests, Message: "Resource has been exhausted", Status: "RESOURCE_EXHAUSTED"},
			wantKind:   refinement.KindRateLimited,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "model not found",
			err:        &genai.APIError{Code: http.StatusNotFound, Message: "models/gemini-pro is not found for API version v1", Status: "NOT_FOUND"},
			wantKind:   refinement.KindModelUnavailable,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid key reported as bad request",
			err:        genai.APIError{Code: http.StatusBadRequest, Message: "API key not valid. Please pass a valid API key.", Status: "INVALID_ARGUMENT"},
			wantKind:   refinement.KindMisconfiguredCredentials,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream server error",
			err:        genai.APIError{Code: http.StatusInternalServerError, Message: "Internal error encountered.", Status: "INTERNAL"},
			wantKind:   refinement.KindUpstreamBadResponse,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:     "wrapped transport error",
			err:      fmt.Errorf("doing request: %w", errors.New("dial tcp: connection refused")),
			wantKind: refinement.KindTransport,
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantKind: refinement.KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{
				GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return nil, tt.err
				},
			}

			_, err := testAdapter(gen).Generate(context.Background(), "instruction")

			var providerErr *refinement.ProviderError
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, tt.wantKind, providerErr.Kind)
			assert.Equal(t, tt.wantStatus, providerErr.StatusCode)
			assert.Equal(t, 1, gen.calls, "no retries")
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	gen := &mockGenerator{
		GenerateContentFn: func(ctx context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("request: %w", ctx.Err())
		},
	}
	adapter := testAdapter(gen)
	adapter.timeout = 10 * time.Millisecond

	_, err := adapter.Generate(context.Background(), "instruction")

	assert.Equal(t, refinement.KindTimeout, refinement.Classify(err).Kind)
}

func TestGenerateBadResponses(t *testing.T) {
	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		wantBlocked bool
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
		},
		{
			name: "safety stop",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "partial"}}},
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantBlocked: true,
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantBlocked: true,
		},
		{name: "blank text", resp: textResponse("  \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{
				GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, nil
				},
			}

			_, err := testAdapter(gen).Generate(context.Background(), "instruction")

			var providerErr *refinement.ProviderError
			require.ErrorAs(t, err, &providerErr)
			assert.Equal(t, refinement.KindUpstreamBadResponse, providerErr.Kind)
			assert.Equal(t, tt.wantBlocked, errors.Is(err, refinement.ErrContentBlocked))
			assert.Contains(t, err.Error(), "invalid response")
		})
	}
}

func TestNewAdapterValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewAdapter(context.Background(), nil, testConfig())
		assert.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := testConfig()
		cfg.GeminiAPIKey = ""
		_, err := NewAdapter(context.Background(), logger, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := testConfig()
		cfg.ModelName = " "
		_, err := NewAdapter(context.Background(), logger, cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestNewAdapterDefaultsTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RequestTimeoutSeconds = 0

	adapter := newAdapter(&mockGenerator{}, slog.Default(), cfg)

	assert.Equal(t, defaultTimeout, adapter.timeout)
}
