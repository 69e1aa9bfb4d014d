package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPromptStore mocks store.PromptStore.
type MockPromptStore struct {
	mock.Mock
}

func (m *MockPromptStore) Create(ctx context.Context, prompt *domain.Prompt) error {
	return m.Called(ctx, prompt).Error(0)
}

func (m *MockPromptStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Prompt, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockPromptStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Prompt), args.Error(1)
}

func (m *MockPromptStore) CountByUser(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error) {
	args := m.Called(ctx, userID, favoritesOnly)
	return args.Int(0), args.Error(1)
}

func (m *MockPromptStore) SetFavorite(
	ctx context.Context,
	userID, id uuid.UUID,
	favorite bool,
) (*domain.Prompt, error) {
	args := m.Called(ctx, userID, id, favorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prompt), args.Error(1)
}

func (m *MockPromptStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPromptStore) WithTx(*sql.Tx) store.PromptStore {
	return m
}

func newServiceUnderTest(t *testing.T) (*MockPromptStore, sqlmock.Sqlmock, PromptService) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	promptStore := &MockPromptStore{}
	return promptStore, dbMock, NewPromptService(promptStore, db, nil)
}

func samplePrompt(userID uuid.UUID, favorite bool) *domain.Prompt {
	return &domain.Prompt{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          "Write a poem about cats...",
		OriginalPrompt: "Write a poem about cats",
		RefinedPrompt:  "Write a rhyming poem about cats for children",
		IsFavorite:     favorite,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestPromptServiceSave(t *testing.T) {
	t.Parallel()

	t.Run("saves a valid prompt", func(t *testing.T) {
		t.Parallel()
		promptStore, _, svc := newServiceUnderTest(t)
		userID := uuid.New()

		promptStore.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Prompt) bool {
			return p.UserID == userID && p.Title == "Write a poem about cats..."
		})).Return(nil)

		prompt, err := svc.Save(context.Background(), userID, "Write a poem about cats", "refined")
		require.NoError(t, err)
		assert.Equal(t, "refined", prompt.RefinedPrompt)
		promptStore.AssertExpectations(t)
	})

	t.Run("rejects empty refined prompt without touching the store", func(t *testing.T) {
		t.Parallel()
		promptStore, _, svc := newServiceUnderTest(t)

		_, err := svc.Save(context.Background(), uuid.New(), "original", "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyRefinedPrompt)
		promptStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		t.Parallel()
		promptStore, _, svc := newServiceUnderTest(t)
		storeErr := errors.New("connection reset")
		promptStore.On("Create", mock.Anything, mock.Anything).Return(storeErr)

		_, err := svc.Save(context.Background(), uuid.New(), "original", "refined")
		var svcErr *PromptServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "save", svcErr.Operation)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestPromptServiceGet(t *testing.T) {
	t.Parallel()

	promptStore, _, svc := newServiceUnderTest(t)
	userID := uuid.New()
	existing := samplePrompt(userID, false)
	missing := uuid.New()

	promptStore.On("GetByID", mock.Anything, userID, existing.ID).Return(existing, nil)
	promptStore.On("GetByID", mock.Anything, userID, missing).Return(nil, store.ErrPromptNotFound)

	got, err := svc.Get(context.Background(), userID, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing, got)

	_, err = svc.Get(context.Background(), userID, missing)
	assert.ErrorIs(t, err, store.ErrPromptNotFound)

	_, err = svc.Get(context.Background(), userID, uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidPromptID)
}

func TestPromptServiceListAndCount(t *testing.T) {
	t.Parallel()

	promptStore, _, svc := newServiceUnderTest(t)
	userID := uuid.New()
	other := uuid.New()

	promptStore.On("ListByUser", mock.Anything, userID).
		Return([]*domain.Prompt{samplePrompt(userID, true), samplePrompt(userID, false)}, nil)
	promptStore.On("ListByUser", mock.Anything, other).Return(nil, nil)
	promptStore.On("CountByUser", mock.Anything, userID, true).Return(1, nil)
	promptStore.On("CountByUser", mock.Anything, userID, false).Return(2, nil)

	prompts, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, prompts, 2)

	empty, err := svc.List(context.Background(), other)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	favorites, err := svc.Count(context.Background(), userID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, favorites)

	all, err := svc.Count(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, all)
}

func TestPromptServiceSetFavorite(t *testing.T) {
	t.Parallel()

	t.Run("updates inside a transaction", func(t *testing.T) {
		t.Parallel()
		promptStore, dbMock, svc := newServiceUnderTest(t)
		userID := uuid.New()
		current := samplePrompt(userID, false)
		updated := *current
		updated.IsFavorite = true

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		promptStore.On("GetByID", mock.Anything, userID, current.ID).Return(current, nil)
		promptStore.On("SetFavorite", mock.Anything, userID, current.ID, true).Return(&updated, nil)

		got, err := svc.SetFavorite(context.Background(), userID, current.ID, true)
		require.NoError(t, err)
		assert.True(t, got.IsFavorite)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		promptStore.AssertExpectations(t)
	})

	t.Run("no write when the flag already matches", func(t *testing.T) {
		t.Parallel()
		promptStore, dbMock, svc := newServiceUnderTest(t)
		userID := uuid.New()
		current := samplePrompt(userID, true)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		promptStore.On("GetByID", mock.Anything, userID, current.ID).Return(current, nil)

		got, err := svc.SetFavorite(context.Background(), userID, current.ID, true)
		require.NoError(t, err)
		assert.Same(t, current, got)
		promptStore.AssertNotCalled(t, "SetFavorite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rolls back when the prompt is missing", func(t *testing.T) {
		t.Parallel()
		promptStore, dbMock, svc := newServiceUnderTest(t)
		userID := uuid.New()
		id := uuid.New()

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		promptStore.On("GetByID", mock.Anything, userID, id).Return(nil, store.ErrPromptNotFound)

		_, err := svc.SetFavorite(context.Background(), userID, id, true)
		assert.ErrorIs(t, err, store.ErrPromptNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		_, dbMock, svc := newServiceUnderTest(t)
		dbMock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		_, err := svc.SetFavorite(context.Background(), uuid.New(), uuid.New(), true)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
	})
}

func TestPromptServiceDelete(t *testing.T) {
	t.Parallel()

	promptStore, _, svc := newServiceUnderTest(t)
	userID := uuid.New()
	id := uuid.New()
	gone := uuid.New()

	promptStore.On("Delete", mock.Anything, userID, id).Return(nil)
	promptStore.On("Delete", mock.Anything, userID, gone).Return(store.ErrPromptNotFound)

	assert.NoError(t, svc.Delete(context.Background(), userID, id))
	assert.ErrorIs(t, svc.Delete(context.Background(), userID, gone), store.ErrPromptNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), userID, uuid.Nil), ErrInvalidPromptID)
}
