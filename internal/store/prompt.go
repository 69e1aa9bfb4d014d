package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
)

// PromptStore defines the interface for the prompt library. Every lookup is
// scoped to the owning user; a prompt owned by someone else is reported as
// ErrPromptNotFound.
type PromptStore interface {
	// Create saves a new prompt.
	Create(ctx context.Context, prompt *domain.Prompt) error

	// GetByID retrieves one of userID's prompts.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Prompt, error)

	// ListByUser returns userID's prompts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error)

	// CountByUser counts userID's prompts, optionally only favorites.
	CountByUser(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error)

	// SetFavorite updates the favorite flag and returns the updated prompt.
	SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) (*domain.Prompt, error)

	// Delete removes one of userID's prompts.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a PromptStore bound to tx.
	WithTx(tx *sql.Tx) PromptStore
}
