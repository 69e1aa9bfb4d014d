package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/refinement"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// RefinePromptRequest is the body of POST /api/prompt/refine.
type RefinePromptRequest struct {
	Prompt  string             `json:"prompt"  validate:"required"`
	Answers refinement.Answers `json:"answers,omitempty"`
}

// Validate rejects whitespace-only prompts, which the required tag accepts.
func (r RefinePromptRequest) Validate() error {
	return validatePromptText(r.Prompt)
}

// PromptTextRequest is the body of the questions and suggestions endpoints.
type PromptTextRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func (r PromptTextRequest) Validate() error {
	return validatePromptText(r.Prompt)
}

// LegacyRefineRequest is the body of POST /api/refine. Without answers the
// endpoint returns questions; with answers, even an empty set, it refines.
type LegacyRefineRequest struct {
	OriginalPrompt string             `json:"originalPrompt" validate:"required"`
	Answers        refinement.Answers `json:"answers"`
}

func (r LegacyRefineRequest) Validate() error {
	return validatePromptText(r.OriginalPrompt)
}

// RefinePromptResponse is a successful refinement.
type RefinePromptResponse struct {
	RefinedPrompt string `json:"refinedPrompt"`
	Source        string `json:"source,omitempty"`
}

// RefineErrorResponse is a failed refinement. RefinedPrompt carries the
// diagnostic text older clients display in place of a refined prompt.
type RefineErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Kind          string `json:"kind"`
	RefinedPrompt string `json:"refinedPrompt"`
	TraceID       string `json:"trace_id,omitempty"`
}

// QuestionResponse is one clarifying question.
type QuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuestionsResponse is the body returned by the questions endpoints.
type QuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Source    string             `json:"source"`
}

// SuggestionsResponse is the body returned by the suggestions endpoint.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Source      string   `json:"source"`
}

// SavePromptRequest is the body of POST /api/prompts.
type SavePromptRequest struct {
	OriginalPrompt string `json:"originalPrompt" validate:"required"`
	RefinedPrompt  string `json:"refinedPrompt"  validate:"required"`
}

// UpdatePromptRequest is the body of PATCH /api/prompts/{id}.
type UpdatePromptRequest struct {
	IsFavorite *bool `json:"isFavorite" validate:"required"`
}

// PromptResponse is a saved prompt.
type PromptResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	OriginalPrompt string    `json:"originalPrompt"`
	RefinedPrompt  string    `json:"refinedPrompt"`
	IsFavorite     bool      `json:"isFavorite"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CountResponse is the body of GET /api/prompts/count.
type CountResponse struct {
	Count int `json:"count"`
}

// SuccessResponse acknowledges an operation with no other result.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func validatePromptText(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

func promptToResponse(p *domain.Prompt) PromptResponse {
	return PromptResponse{
		ID:             p.ID,
		Title:          p.Title,
		OriginalPrompt: p.OriginalPrompt,
		RefinedPrompt:  p.RefinedPrompt,
		IsFavorite:     p.IsFavorite,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func questionsToResponse(result refinement.QuestionsResult) QuestionsResponse {
	questions := make([]QuestionResponse, 0, len(result.Questions))
	for _, q := range result.Questions {
		questions = append(questions, QuestionResponse{Question: q.Question, Options: q.Options})
	}
	return QuestionsResponse{Questions: questions, Source: string(result.Source)}
}
