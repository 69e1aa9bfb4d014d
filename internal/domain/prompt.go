package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// titleWords is how many words of the original prompt make up a title.
const titleWords = 5

// Prompt validation errors.
var (
	ErrEmptyOriginalPrompt = errors.New("original prompt cannot be empty")
	ErrEmptyRefinedPrompt  = errors.New("refined prompt cannot be empty")
)

// Prompt is a refined prompt saved to a user's library.
type Prompt struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	OriginalPrompt string    `json:"originalPrompt"`
	RefinedPrompt  string    `json:"refinedPrompt"`
	IsFavorite     bool      `json:"isFavorite"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewPrompt creates a validated Prompt owned by userID. The title is derived
// from the original prompt.
func NewPrompt(userID uuid.UUID, originalPrompt, refinedPrompt string) (*Prompt, error) {
	now := time.Now().UTC()
	p := &Prompt{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          TitleFor(originalPrompt),
		OriginalPrompt: originalPrompt,
		RefinedPrompt:  refinedPrompt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the prompt has an owner and both texts.
func (p *Prompt) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(p.OriginalPrompt) == "" {
		return ErrEmptyOriginalPrompt
	}
	if strings.TrimSpace(p.RefinedPrompt) == "" {
		return ErrEmptyRefinedPrompt
	}
	return nil
}

// TitleFor returns the first five words of prompt followed by "...".
func TitleFor(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "..."
}
