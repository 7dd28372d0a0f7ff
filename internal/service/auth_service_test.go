package service

import (
	"context"
	"testing"
	"time"

	"go-sales-inventory/internal/repository"
	"go-sales-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (AuthService, *jwt.Manager, repository.UserRepository) {
	t.Helper()

	db := setupTestDB(t)
	users := repository.NewUserRepo(db)
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService(users, tokens), tokens, users
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Admin@Example.com", "secret123", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin@example.com", "other", "Administrator")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureAdmin(ctx, "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx, "admin@example.com", "secret123", "Administrator")
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "ADMIN@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	me, err := svc.CurrentUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Administrator", me.FullName)

	_, err = svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CurrentUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx, "admin@example.com", "secret123", "Administrator")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "admin@example.com", "123"), ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "nobody@example.com", "newsecret"), ErrUserNotFound)
	require.NoError(t, svc.ResetPassword(ctx, "admin@example.com", "newsecret"))

	_, err = svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}
