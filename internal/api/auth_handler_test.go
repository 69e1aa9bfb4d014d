package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/promptoid/promptoid-api/internal/config"
	"github.com/promptoid/promptoid-api/internal/domain"
	"github.com/promptoid/promptoid-api/internal/service/auth"
	"github.com/promptoid/promptoid-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.AuthConfig{TokenLifetimeMinutes: 60, RefreshTokenLifetimeMinutes: 1440}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{"success", `{"email":"ada@example.com","password":"long-enough-pass"}`, nil, http.StatusCreated},
		{"short password", `{"email":"ada@example.com","password":"short"}`, nil, http.StatusBadRequest},
		{"bad email", `{"email":"nope","password":"long-enough-pass"}`, nil, http.StatusBadRequest},
		{"duplicate", `{"email":"ada@example.com","password":"long-enough-pass"}`, store.ErrEmailExists, http.StatusConflict},
		{"store failure", `{"email":"ada@example.com","password":"long-enough-pass"}`, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := &mockUserStore{
				createFunc: func(context.Context, *domain.User) error { return tt.createErr },
			}
			h := NewAuthHandler(users, &mockJWTService{}, &mockPasswordVerifier{}, testAuthConfig, nil)

			w := postJSON(t, h.Register, "/api/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "db down")

			if tt.wantStatus == http.StatusCreated {
				var body AuthResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.NotEqual(t, uuid.Nil, body.UserID)
				assert.Equal(t, "access-"+body.UserID.String(), body.AccessToken)
				assert.Equal(t, "refresh-"+body.UserID.String(), body.RefreshToken)
				_, err := time.Parse(time.RFC3339, body.ExpiresAt)
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Email: "ada@example.com", HashedPassword: "hash"}
	users := &mockUserStore{
		getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, store.ErrUserNotFound
		},
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(users, &mockJWTService{}, &mockPasswordVerifier{}, testAuthConfig, nil)
		w := postJSON(t, h.Login, "/api/auth/login", `{"email":"ada@example.com","password":"whatever"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.String())
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(users, &mockJWTService{}, &mockPasswordVerifier{err: errors.New("mismatch")},
			testAuthConfig, nil)

		unknown := postJSON(t, h.Login, "/api/auth/login", `{"email":"bob@example.com","password":"x"}`)
		wrong := postJSON(t, h.Login, "/api/auth/login", `{"email":"ada@example.com","password":"x"}`)

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Contains(t, unknown.Body.String(), "Invalid credentials")
		assert.Contains(t, wrong.Body.String(), "Invalid credentials")
	})

	t.Run("token failure", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(users, &mockJWTService{generateErr: errors.New("sign")}, &mockPasswordVerifier{},
			testAuthConfig, nil)
		w := postJSON(t, h.Login, "/api/auth/login", `{"email":"ada@example.com","password":"x"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(&mockUserStore{}, &mockJWTService{
			refreshClaims: &auth.Claims{UserID: userID, TokenType: "refresh"},
		}, &mockPasswordVerifier{}, testAuthConfig, nil)

		w := postJSON(t, h.RefreshToken, "/api/auth/refresh", `{"refresh_token":"r"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body RefreshTokenResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "access-"+userID.String(), body.AccessToken)
		assert.Equal(t, "refresh-"+userID.String(), body.RefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(&mockUserStore{}, &mockJWTService{refreshErr: auth.ErrExpiredRefreshToken},
			&mockPasswordVerifier{}, testAuthConfig, nil)

		w := postJSON(t, h.RefreshToken, "/api/auth/refresh", `{"refresh_token":"r"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid refresh token")
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{}, testAuthConfig, nil)
		w := postJSON(t, h.RefreshToken, "/api/auth/refresh", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
