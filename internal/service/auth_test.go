package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/testhelpers"
)

func TestAuthService_Register(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	authSvc := service.NewAuthService(db, "test-secret")

	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := authSvc.Register("alice", "password123")
		require.NoError(t, err)
		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "password123", user.PasswordHash)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := authSvc.Register("alice", "otherpassword")
		assert.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := authSvc.Register("", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = authSvc.Register("bob", "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestAuthService_Login(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	authSvc := service.NewAuthService(db, "test-secret")

	user, err := authSvc.Register("alice", "password123")
	require.NoError(t, err)

	t.Run("valid credentials yield a usable token", func(t *testing.T) {
		token, err := authSvc.Login("alice", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := authSvc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authSvc.Login("alice", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := authSvc.Login("nobody", "password123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	authSvc := service.NewAuthService(db, "test-secret")

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := authSvc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		otherSvc := service.NewAuthService(db, "other-secret")
		_, err := otherSvc.Register("carol", "password123")
		require.NoError(t, err)

		token, err := otherSvc.Login("carol", "password123")
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(token)
		assert.Error(t, err)
	})
}
