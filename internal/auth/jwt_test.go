package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
)

func TestJWTService_GeneratePair(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)

	userID := uuid.New()
	email := "test@example.com"
	role := models.RoleRestaurant

	t.Run("generates valid access and refresh tokens", func(t *testing.T) {
		pair, err := jwtService.GeneratePair(userID, email, role)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Access)
		assert.NotEmpty(t, pair.Refresh)
		assert.NotEqual(t, pair.Access, pair.Refresh)

		claims, err := jwtService.ValidateAccess(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)

		claims, err = jwtService.ValidateRefresh(pair.Refresh)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("token contains correct issuer and subject", func(t *testing.T) {
		pair, err := jwtService.GeneratePair(userID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccess(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, "digitalorder-accounts", claims.Issuer)
		assert.Equal(t, userID.String(), claims.Subject)
	})

	t.Run("access token is rejected as refresh and vice versa", func(t *testing.T) {
		pair, err := jwtService.GeneratePair(userID, email, role)
		require.NoError(t, err)

		_, err = jwtService.ValidateRefresh(pair.Access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)

		_, err = jwtService.ValidateAccess(pair.Refresh)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestJWTService_Validate(t *testing.T) {
	userID := uuid.New()
	email := "test@example.com"
	role := models.RoleProvider

	t.Run("accepts either token type", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)

		pair, err := jwtService.GeneratePair(userID, email, role)
		require.NoError(t, err)

		_, err = jwtService.Validate(pair.Access)
		assert.NoError(t, err)
		_, err = jwtService.Validate(pair.Refresh)
		assert.NoError(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond, 1*time.Millisecond)

		pair, err := jwtService.GeneratePair(userID, email, role)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateAccess(pair.Access)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
		otherService := auth.NewJWTService("other-secret", time.Hour, 24*time.Hour)

		pair, err := otherService.GeneratePair(userID, email, role)
		require.NoError(t, err)

		_, err = jwtService.ValidateAccess(pair.Access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)

		_, err := jwtService.Validate("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestJWTService_RefreshAccess(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	t.Run("issues new access token from refresh token", func(t *testing.T) {
		pair, err := jwtService.GeneratePair(userID, "test@example.com", models.RoleRestaurant)
		require.NoError(t, err)

		access, err := jwtService.RefreshAccess(pair.Refresh)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccess(access)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, models.RoleRestaurant, claims.Role)
	})

	t.Run("rejects access token as refresh input", func(t *testing.T) {
		pair, err := jwtService.GeneratePair(userID, "test@example.com", models.RoleRestaurant)
		require.NoError(t, err)

		_, err = jwtService.RefreshAccess(pair.Access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
