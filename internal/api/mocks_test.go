package api

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/refinement"
	"github.com/promptoid/promptoid-api/internal/service/auth"
	"github.com/promptoid/promptoid-api/internal/store"
)

type mockRefiner struct {
	refineFunc      func(ctx context.Context, req refinement.RefinementRequest) (refinement.RefinementResult, error)
	questionsFunc   func(ctx context.Context, prompt string) refinement.QuestionsResult
	suggestionsFunc func(ctx context.Context, prompt string) refinement.SuggestionsResult
}

func (m *mockRefiner) RefinePrompt(
	ctx context.Context,
	req refinement.RefinementRequest,
) (refinement.RefinementResult, error) {
	return m.refineFunc(ctx, req)
}

func (m *mockRefiner) GetQuestions(ctx context.Context, prompt string) refinement.QuestionsResult {
	return m.questionsFunc(ctx, prompt)
}

func (m *mockRefiner) GetSuggestions(ctx context.Context, prompt string) refinement.SuggestionsResult {
	return m.suggestionsFunc(ctx, prompt)
}

type mockPromptService struct {
	saveFunc        func(ctx context.Context, userID uuid.UUID, original, refined string) (*domain.Prompt, error)
	getFunc         func(ctx context.Context, userID, id uuid.UUID) (*domain.Prompt, error)
	listFunc        func(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error)
	countFunc       func(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error)
	setFavoriteFunc func(ctx context.Context, userID, id uuid.UUID, favorite bool) (*domain.Prompt, error)
	deleteFunc      func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockPromptService) Save(
	ctx context.Context,
	userID uuid.UUID,
	original, refined string,
) (*domain.Prompt, error) {
	return m.saveFunc(ctx, userID, original, refined)
}

func (m *mockPromptService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Prompt, error) {
	return m.getFunc(ctx, userID, id)
}

func (m *mockPromptService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Prompt, error) {
	return m.listFunc(ctx, userID)
}

func (m *mockPromptService) Count(ctx context.Context, userID uuid.UUID, favoritesOnly bool) (int, error) {
	return m.countFunc(ctx, userID, favoritesOnly)
}

func (m *mockPromptService) SetFavorite(
	ctx context.Context,
	userID, id uuid.UUID,
	favorite bool,
) (*domain.Prompt, error) {
	return m.setFavoriteFunc(ctx, userID, id, favorite)
}

func (m *mockPromptService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.deleteFunc(ctx, userID, id)
}

type mockUserStore struct {
	createFunc     func(ctx context.Context, user *domain.User) error
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

type mockJWTService struct {
	generateErr   error
	refreshClaims *auth.Claims
	refreshErr    error
}

func (m *mockJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access-" + userID.String(), nil
}

func (m *mockJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "refresh-" + userID.String(), nil
}

func (m *mockJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return m.refreshClaims, m.refreshErr
}

type mockPasswordVerifier struct {
	err error
}

func (m *mockPasswordVerifier) Compare(string, string) error {
	return m.err
}

func samplePrompt(userID uuid.UUID) *domain.Prompt {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Prompt{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          "Write an email to my...",
		OriginalPrompt: "Write an email to my boss",
		RefinedPrompt:  "Write a polite email to my manager asking for Friday off",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
