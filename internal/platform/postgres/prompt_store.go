package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/platform/logger"
	"github.com/promptoid/promptoid-api/internal/store"
)

const promptColumns = `id, user_id, title, original_prompt, refined_prompt, is_favorite, created_at, updated_at`

// PostgresPromptStore implements store.PromptStore.
type PostgresPromptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPromptStore creates a PostgresPromptStore over db, which may be
// a connection pool or a transaction.
func NewPostgresPromptStore(db store.DBTX, logger *slog.Logger) *PostgresPromptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPromptStore{
		db:     db,
		logger: logger.With(slog.String("component", "prompt_store")),
	}
}

var _ store.PromptStore = (*PostgresPromptStore)(nil)

// WithTx implements store.PromptStore.WithTx.
func (s *PostgresPromptStore) WithTx(tx *sql.Tx) store.PromptStore {
	return &PostgresPromptStore{db: tx, logger: s.logger}
}

// Create implements store.PromptStore.Create.
func (s *PostgresPromptStore) Create(ctx context.Context, prompt *domain.Prompt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := prompt.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO prompts (` + promptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		prompt.ID,
		prompt.UserID,
		prompt.Title,
		prompt.OriginalPrompt,
		prompt.RefinedPrompt,
		prompt.IsFavorite,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, prompt.UserID)
		}
		log.ErrorContext(ctx, "failed to create prompt",
			slog.String("prompt_id", prompt.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("prompt", "create", "insert failed", MapError(err))
	}

	log.DebugContext(ctx, "prompt created",
		slog.String("prompt_id", prompt.ID.String()),
		slog.String("user_id", prompt.UserID.String()))
	return nil
}

// GetByID implements store.PromptStore.GetByID.
func (s *PostgresPromptStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1 AND user_id = $2`

	prompt, err := scanPrompt(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPromptNotFound
		}
		return nil, store.NewStoreError("prompt", "get", "query failed", MapError(err))
	}
	return prompt, nil
}

// ListByUser implements store.PromptStore.ListByUser.
func (s *PostgresPromptStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("prompt", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	prompts := make([]*domain.Prompt, 0)
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, store.NewStoreError("prompt", "list", "scan failed", err)
		}
		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("prompt", "list", "iteration failed", err)
	}
	return prompts, nil
}

// CountByUser implements store.PromptStore.CountByUser.
func (s *PostgresPromptStore) CountByUser(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM prompts WHERE user_id = $1 AND (NOT $2 OR is_favorite)`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, favoritesOnly).Scan(&count); err != nil {
		return 0, store.NewStoreError("prompt", "count", "query failed", MapError(err))
	}
	return count, nil
}

// SetFavorite implements store.PromptStore.SetFavorite.
func (s *PostgresPromptStore) SetFavorite(
	ctx context.Context,
	userID, id uuid.UUID,
	favorite bool,
) (*domain.Prompt, error) {
	query := `
		UPDATE prompts SET is_favorite = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
		RETURNING ` + promptColumns

	prompt, err := scanPrompt(s.db.QueryRowContext(ctx, query, favorite, time.Now().UTC(), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPromptNotFound
		}
		return nil, store.NewStoreError("prompt", "update", "update failed", MapError(err))
	}
	return prompt, nil
}

// Delete implements store.PromptStore.Delete.
func (s *PostgresPromptStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return store.NewStoreError("prompt", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrPromptNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (*domain.Prompt, error) {
	var p domain.Prompt
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.OriginalPrompt,
		&p.RefinedPrompt,
		&p.IsFavorite,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
