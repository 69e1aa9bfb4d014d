package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptoid/promptoid-api/internal/api/shared"
	"github.com/promptoid/promptoid-api/internal/platform/logger"
	"github.com/promptoid/promptoid-api/internal/redact"
	"github.com/promptoid/promptoid-api/internal/refinement"
)

// Refiner is the part of refinement.Service the handlers use.
type Refiner interface {
	RefinePrompt(ctx context.Context, req refinement.RefinementRequest) (refinement.RefinementResult, error)
	GetQuestions(ctx context.Context, userPrompt string) refinement.QuestionsResult
	GetSuggestions(ctx context.Context, userPrompt string) refinement.SuggestionsResult
}

var _ Refiner = (*refinement.Service)(nil)

// RefineHandler serves the AI endpoints.
type RefineHandler struct {
	refiner Refiner
	logger  *slog.Logger
}

// NewRefineHandler creates a RefineHandler.
func NewRefineHandler(refiner Refiner, logger *slog.Logger) *RefineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefineHandler{
		refiner: refiner,
		logger:  logger.With(slog.String("component", "refine_handler")),
	}
}

// Refine handles POST /api/prompt/refine.
func (h *RefineHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefinePromptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.refine(w, r, req.Prompt, req.Answers)
}

// Questions handles POST /api/prompt/questions.
func (h *RefineHandler) Questions(w http.ResponseWriter, r *http.Request) {
	var req PromptTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.questions(w, r, req.Prompt)
}

// Suggestions handles POST /api/prompt/suggestions.
func (h *RefineHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req PromptTextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result := h.refiner.GetSuggestions(r.Context(), req.Prompt)
	h.logSource(r, refinement.OperationSuggestions, result.Source, result.FallbackReason)
	suggestions := result.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuggestionsResponse{
		Suggestions: suggestions,
		Source:      string(result.Source),
	})
}

// LegacyRefine handles POST /api/refine: questions when the body carries no
// answers, a refinement otherwise.
func (h *RefineHandler) LegacyRefine(w http.ResponseWriter, r *http.Request) {
	var req LegacyRefineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Answers == nil {
		h.questions(w, r, req.OriginalPrompt)
		return
	}
	h.refine(w, r, req.OriginalPrompt, req.Answers)
}

func (h *RefineHandler) refine(w http.ResponseWriter, r *http.Request, prompt string, answers refinement.Answers) {
	result, err := h.refiner.RefinePrompt(r.Context(), refinement.RefinementRequest{
		OriginalPrompt: prompt,
		Answers:        answers,
	})
	if err != nil {
		var refineErr *refinement.RefinementError
		if !errors.As(err, &refineErr) {
			HandleAPIError(w, r, err, "Failed to refine prompt")
			return
		}
		h.respondRefineError(w, r, refineErr)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefinePromptResponse{
		RefinedPrompt: result.RefinedPrompt,
		Source:        string(result.Source),
	})
}

// respondRefineError writes the classified failure. The diagnostic text goes
// in refinedPrompt for clients that display it in place of a result.
func (h *RefineHandler) respondRefineError(w http.ResponseWriter, r *http.Request, err *refinement.RefinementError) {
	c := err.Classification
	level := slog.LevelWarn
	if c.Status >= http.StatusInternalServerError && c.Status != http.StatusServiceUnavailable {
		level = slog.LevelError
	}
	logger.FromContextOrDefault(r.Context(), h.logger).LogAttrs(r.Context(), level, "prompt refinement failed",
		slog.String("kind", string(c.Kind)),
		slog.Int("status_code", c.Status),
		slog.String("error", redact.Error(err)))

	shared.RespondWithJSON(w, r, c.Status, RefineErrorResponse{
		Error:         "Failed to refine prompt",
		Message:       c.UserMessage,
		Kind:          string(c.Kind),
		RefinedPrompt: err.DiagnosticText(),
		TraceID:       shared.GetTraceID(r.Context()),
	})
}

func (h *RefineHandler) questions(w http.ResponseWriter, r *http.Request, prompt string) {
	result := h.refiner.GetQuestions(r.Context(), prompt)
	h.logSource(r, refinement.OperationQuestions, result.Source, result.FallbackReason)
	shared.RespondWithJSON(w, r, http.StatusOK, questionsToResponse(result))
}

func (h *RefineHandler) logSource(r *http.Request, op string, source refinement.Source, reason refinement.ErrorKind) {
	if reason == "" {
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).DebugContext(r.Context(), "served degraded result",
		slog.String("operation", op),
		slog.String("source", string(source)),
		slog.String("reason", string(reason)))
}
