package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/promptoid/promptoid-api/internal/config"
	"github.com/promptoid/promptoid-api/internal/refinement"
	"google.golang.org/genai"
)

// ErrInvalidConfig is returned by NewAdapter when the LLM configuration is unusable.
var ErrInvalidConfig = errors.New("invalid gemini configuration")

const (
	defaultTimeout    = 30 * time.Second
	jsonMIMEType      = "application/json"
	defaultAPIVersion = "v1"
)

// contentGenerator is the subset of *genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Adapter sends instructions to a Gemini model.
type Adapter struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

var _ refinement.Provider = (*Adapter)(nil)

// NewAdapter creates an Adapter from cfg. The API key must be set; callers
// decide between live and local mode before calling this.
func NewAdapter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Adapter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: apiVersion},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.InfoContext(ctx, "gemini adapter initialized",
		slog.String("model", cfg.ModelName),
		slog.String("api_version", apiVersion))

	return newAdapter(client.Models, logger, cfg), nil
}

func newAdapter(models contentGenerator, logger *slog.Logger, cfg config.LLMConfig) *Adapter {
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{
		models:      models,
		model:       cfg.ModelName,
		temperature: cfg.QuestionsTemperature,
		timeout:     timeout,
		logger:      logger,
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	return nil
}

// Generate sends instruction as a single user turn and returns the model's text.
func (a *Adapter) Generate(ctx context.Context, instruction string) (string, error) {
	return a.generate(ctx, instruction, nil)
}

// GenerateStructured asks for a JSON response at the configured temperature
// and returns the payload with any code fencing removed.
func (a *Adapter) GenerateStructured(ctx context.Context, instruction string) (json.RawMessage, error) {
	text, err := a.generate(ctx, instruction, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(a.temperature),
		ResponseMIMEType: jsonMIMEType,
	})
	if err != nil {
		return nil, err
	}

	payload := refinement.CleanJSON(text)
	if !json.Valid([]byte(payload)) {
		return nil, refinement.NewProviderError(
			refinement.KindMalformedResponse, 0,
			"model returned non-JSON output",
			refinement.ErrMalformedResponse,
		)
	}
	return json.RawMessage(payload), nil
}

func (a *Adapter) generate(ctx context.Context, instruction string, cfg *genai.GenerateContentConfig) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", refinement.ErrEmptyInstruction
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(instruction), cfg)
	if err != nil {
		mapped := mapError(ctx, err)
		a.logger.DebugContext(ctx, "gemini request failed",
			slog.String("model", a.model),
			slog.String("kind", string(mapped.Kind)),
			slog.Int("status", mapped.StatusCode),
			slog.Duration("duration", time.Since(start)))
		return "", mapped
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}

	a.logger.DebugContext(ctx, "gemini request completed",
		slog.String("model", a.model),
		slog.Int("response_length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}

// extractText returns the text of the first candidate, rejecting blocked and
// empty responses.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", badResponse("invalid response: nil response", nil)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", badResponse(
			fmt.Sprintf("invalid response: prompt blocked (%s)", resp.PromptFeedback.BlockReason),
			refinement.ErrContentBlocked)
	}
	if len(resp.Candidates) == 0 {
		return "", badResponse("invalid response: no candidates", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", badResponse("invalid response: candidate blocked by safety filters", refinement.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", badResponse("invalid response: candidate has no content", nil)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", badResponse("invalid response: empty text", nil)
	}
	return text, nil
}

func badResponse(msg string, err error) *refinement.ProviderError {
	return refinement.NewProviderError(refinement.KindUpstreamBadResponse, 0, msg, err)
}

// mapError translates an SDK or transport error into a ProviderError.
func mapError(ctx context.Context, err error) *refinement.ProviderError {
	if apiErr, ok := asAPIError(err); ok {
		kind, known := refinement.KindForStatus(apiErr.Code)
		if !known {
			kind = refinement.ClassifyMessage(apiErr.Message)
		}
		if kind == refinement.KindUnknown && apiErr.Code >= http.StatusInternalServerError {
			kind = refinement.KindUpstreamBadResponse
		}
		return refinement.NewProviderError(kind, apiErr.Code, apiErr.Message, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return refinement.NewProviderError(refinement.KindTimeout, 0, "gemini request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return refinement.NewProviderError(refinement.KindTransport, 0, "gemini request canceled", err)
	}

	kind := refinement.ClassifyMessage(err.Error())
	if kind == refinement.KindUnknown {
		kind = refinement.KindTransport
	}
	return refinement.NewProviderError(kind, 0, "", err)
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}
