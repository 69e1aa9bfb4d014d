package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/platform/logger"
	"github.com/promptoid/promptoid-api/internal/store"
)

// PromptService manages a user's saved prompt library.
type PromptService interface {
	// Save stores a refined prompt for userID. The title is derived from the original prompt.
	Save(ctx context.Context, userID uuid.UUID, originalPrompt, refinedPrompt string) (*domain.Prompt, error)

	// Get returns one of userID's prompts.
	Get(ctx context.Context, userID, promptID uuid.UUID) (*domain.Prompt, error)

	// List returns userID's prompts, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error)

	// Count counts userID's prompts, optionally only favorites.
	Count(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error)

	// SetFavorite marks or unmarks one of userID's prompts as a favorite.
	SetFavorite(ctx context.Context, userID, promptID uuid.UUID, favorite bool) (*domain.Prompt, error)

	// Delete removes one of userID's prompts.
	Delete(ctx context.Context, userID, promptID uuid.UUID) error
}

type promptServiceImpl struct {
	promptStore store.PromptStore
	db          store.TxBeginner
	logger      *slog.Logger
}

var _ PromptService = (*promptServiceImpl)(nil)

// NewPromptService creates a PromptService. db is used to open transactions
// for operations that read and then write.
func NewPromptService(promptStore store.PromptStore, db store.TxBeginner, logger *slog.Logger) PromptService {
	if promptStore == nil {
		panic("promptStore cannot be nil")
	}
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &promptServiceImpl{
		promptStore: promptStore,
		db:          db,
		logger:      logger.With(slog.String("component", "prompt_service")),
	}
}

func (s *promptServiceImpl) Save(
	ctx context.Context,
	userID uuid.UUID,
	originalPrompt, refinedPrompt string,
) (*domain.Prompt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prompt, err := domain.NewPrompt(userID, originalPrompt, refinedPrompt)
	if err != nil {
		log.DebugContext(ctx, "rejected invalid prompt",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.promptStore.Create(ctx, prompt); err != nil {
		log.ErrorContext(ctx, "failed to save prompt",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewPromptServiceError("save", "failed to save prompt", err)
	}

	log.InfoContext(ctx, "prompt saved",
		slog.String("user_id", userID.String()),
		slog.String("prompt_id", prompt.ID.String()))
	return prompt, nil
}

func (s *promptServiceImpl) Get(ctx context.Context, userID, promptID uuid.UUID) (*domain.Prompt, error) {
	if promptID == uuid.Nil {
		return nil, ErrInvalidPromptID
	}

	prompt, err := s.promptStore.GetByID(ctx, userID, promptID)
	if err != nil {
		return nil, s.storeFailure(ctx, "get", err, promptID)
	}
	return prompt, nil
}

func (s *promptServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error) {
	prompts, err := s.promptStore.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to list prompts",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewPromptServiceError("list", "failed to list prompts", err)
	}
	if prompts == nil {
		prompts = []*domain.Prompt{}
	}
	return prompts, nil
}

func (s *promptServiceImpl) Count(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error) {
	n, err := s.promptStore.CountByUser(ctx, userID, favoritesOnly)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to count prompts",
			slog.String("user_id", userID.String()),
			slog.Bool("favorites_only", favoritesOnly),
			slog.String("error", err.Error()))
		return 0, NewPromptServiceError("count", "failed to count prompts", err)
	}
	return n, nil
}

// SetFavorite reads the prompt and updates it inside one transaction so a
// concurrent delete surfaces as not found rather than a silent no-op.
func (s *promptServiceImpl) SetFavorite(
	ctx context.Context,
	userID, promptID uuid.UUID,
	favorite bool,
) (*domain.Prompt, error) {
	if promptID == uuid.Nil {
		return nil, ErrInvalidPromptID
	}

	var updated *domain.Prompt
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.promptStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, userID, promptID)
		if err != nil {
			return err
		}
		if current.IsFavorite == favorite {
			updated = current
			return nil
		}

		updated, err = txStore.SetFavorite(ctx, userID, promptID, favorite)
		return err
	})
	if err != nil {
		return nil, s.storeFailure(ctx, "set_favorite", err, promptID)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "prompt favorite updated",
		slog.String("user_id", userID.String()),
		slog.String("prompt_id", promptID.String()),
		slog.Bool("favorite", favorite))
	return updated, nil
}

func (s *promptServiceImpl) Delete(ctx context.Context, userID, promptID uuid.UUID) error {
	if promptID == uuid.Nil {
		return ErrInvalidPromptID
	}

	if err := s.promptStore.Delete(ctx, userID, promptID); err != nil {
		return s.storeFailure(ctx, "delete", err, promptID)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "prompt deleted",
		slog.String("user_id", userID.String()),
		slog.String("prompt_id", promptID.String()))
	return nil
}

// storeFailure passes not-found through unchanged and wraps everything else.
func (s *promptServiceImpl) storeFailure(ctx context.Context, op string, err error, promptID uuid.UUID) error {
	if errors.Is(err, store.ErrPromptNotFound) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "prompt store operation failed",
		slog.String("operation", op),
		slog.String("prompt_id", promptID.String()),
		slog.String("error", err.Error()))
	return NewPromptServiceError(op, "store operation failed", err)
}
