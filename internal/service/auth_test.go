package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-dbt/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	auth := NewAuthService(testhelpers.NewTestDB(t), "test-secret")
	ctx := context.Background()

	user, token, err := auth.Register(ctx, "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	loggedIn, token2, err := auth.Login(ctx, "ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := NewAuthService(testhelpers.NewTestDB(t), "test-secret")
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, "ada@example.com", "different456")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := NewAuthService(testhelpers.NewTestDB(t), "test-secret")
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	auth := NewAuthService(testhelpers.NewTestDB(t), "test-secret")

	user, token, err := auth.Register(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	auth := NewAuthService(db, "test-secret")
	other := NewAuthService(db, "other-secret")

	_, token, err := auth.Register(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
