package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/digitalorder/accounts/internal/testutil"
)

func TestService_RequestVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token and sends email for inactive user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		sent, err := svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, sent)
		assert.Len(t, dispatcher.Verifications, 1)
	})

	t.Run("unknown email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, _ := testutil.NewTestService(t, db)

		_, err := svc.RequestVerification(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, account.ErrUserNotFound)
	})

	t.Run("already active account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, _ := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestVerification(ctx, user.Email)
		assert.ErrorIs(t, err, account.ErrAlreadyActive)
	})

	t.Run("reissue retires the previous token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		_, err := svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)
		first := dispatcher.LastVerificationToken()

		_, err = svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)
		second := dispatcher.LastVerificationToken()
		require.NotEqual(t, first, second)

		// Only the newest token redeems.
		assert.ErrorIs(t, svc.ConfirmVerification(ctx, first), account.ErrInvalidToken)
		assert.NoError(t, svc.ConfirmVerification(ctx, second))
	})

	t.Run("token storage failure propagates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		require.NoError(t, db.Migrator().DropTable(&models.EmailVerificationToken{}))

		_, err := svc.RequestVerification(ctx, user.Email)
		assert.Error(t, err)
		assert.Empty(t, dispatcher.Verifications)
	})
}

func TestService_ConfirmVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("activates user and marks email verified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		_, err := svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmVerification(ctx, dispatcher.LastVerificationToken()))

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.True(t, stored.IsActive)

		var profile models.UserProfile
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
		assert.True(t, profile.IsEmailVerified)
		assert.NotNil(t, profile.EmailVerifiedAt)
	})

	t.Run("second redemption of the same token fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		_, err := svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastVerificationToken()

		require.NoError(t, svc.ConfirmVerification(ctx, token))
		assert.ErrorIs(t, svc.ConfirmVerification(ctx, token), account.ErrInvalidToken)
	})

	t.Run("unknown token fails with the same error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, _ := testutil.NewTestService(t, db)

		assert.ErrorIs(t, svc.ConfirmVerification(ctx, "no-such-token"), account.ErrInvalidToken)
	})

	t.Run("expired token is rejected, expiry instant included", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		_, err := svc.RequestVerification(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastVerificationToken()

		// Backdate the expiry to now; a token at its expiry instant is dead.
		require.NoError(t, db.Model(&models.EmailVerificationToken{}).
			Where("token = ?", token).
			Update("expires_at", time.Now()).Error)

		assert.ErrorIs(t, svc.ConfirmVerification(ctx, token), account.ErrInvalidToken)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.False(t, stored.IsActive)
	})
}

func TestService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token for active user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		sent, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		assert.True(t, sent)
		assert.Len(t, dispatcher.Resets, 1)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, _ := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		assert.ErrorIs(t, err, account.ErrInactiveAccount)
	})

	t.Run("delivery failure reports email_sent false but keeps the token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		dispatcher.FailReset = true
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		sent, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		assert.False(t, sent)

		var count int64
		db.Model(&models.PasswordResetToken{}).Where("user_id = ?", user.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestService_ConfirmPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates password, consumes token, notifies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastResetToken()

		require.NoError(t, svc.ConfirmPasswordReset(ctx, token, "plum-orbit-lantern"))
		assert.Len(t, dispatcher.PasswordChanges, 1)

		_, err = svc.Login(ctx, account.LoginInput{
			Email:    user.Email,
			Password: "plum-orbit-lantern",
			Role:     models.RoleRestaurant,
		})
		assert.NoError(t, err)

		// Old password no longer works.
		_, err = svc.Login(ctx, account.LoginInput{
			Email:    user.Email,
			Password: "testpassword123",
			Role:     models.RoleRestaurant,
		})
		assert.ErrorIs(t, err, account.ErrInvalidCredentials)
	})

	t.Run("token redeems only once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastResetToken()

		require.NoError(t, svc.ConfirmPasswordReset(ctx, token, "plum-orbit-lantern"))

		err = svc.ConfirmPasswordReset(ctx, token, "another-fine-pass")
		assert.ErrorIs(t, err, account.ErrInvalidToken)

		// The failed attempt left the first rotation in place.
		_, err = svc.Login(ctx, account.LoginInput{
			Email:    user.Email,
			Password: "plum-orbit-lantern",
			Role:     models.RoleRestaurant,
		})
		assert.NoError(t, err)
	})

	t.Run("reissue retires the previous reset token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		first := dispatcher.LastResetToken()

		_, err = svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		second := dispatcher.LastResetToken()

		assert.ErrorIs(t, svc.ConfirmPasswordReset(ctx, first, "plum-orbit-lantern"), account.ErrInvalidToken)
		assert.NoError(t, svc.ConfirmPasswordReset(ctx, second, "plum-orbit-lantern"))
	})

	t.Run("weak password leaves the token usable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastResetToken()

		err = svc.ConfirmPasswordReset(ctx, token, "123")
		require.Error(t, err)

		// Strength check runs before any mutation; retry succeeds.
		assert.NoError(t, svc.ConfirmPasswordReset(ctx, token, "plum-orbit-lantern"))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc, dispatcher := testutil.NewTestService(t, db)
		user := testutil.CreateTestUser(t, db, models.RoleRestaurant, true)

		_, err := svc.RequestPasswordReset(ctx, user.Email)
		require.NoError(t, err)
		token := dispatcher.LastResetToken()

		require.NoError(t, db.Model(&models.PasswordResetToken{}).
			Where("token = ?", token).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		err = svc.ConfirmPasswordReset(ctx, token, "plum-orbit-lantern")
		assert.ErrorIs(t, err, account.ErrInvalidToken)
	})
}
