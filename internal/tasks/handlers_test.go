package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/digitalorder/accounts/internal/tasks"
	"github.com/digitalorder/accounts/internal/testutil"
)

func TestHandler_HandleTokenSweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.CreateTestUser(t, db, models.RoleRestaurant, false)
	now := time.Now()

	seed := []models.EmailVerificationToken{
		{UserID: user.ID, Token: "consumed", ExpiresAt: now.Add(time.Hour), Consumed: true},
		{UserID: user.ID, Token: "long-expired", ExpiresAt: now.Add(-8 * 24 * time.Hour)},
		{UserID: user.ID, Token: "recently-expired", ExpiresAt: now.Add(-time.Hour)},
		{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}
	reset := models.PasswordResetToken{UserID: user.ID, Token: "spent", ExpiresAt: now.Add(time.Hour), Consumed: true}
	require.NoError(t, db.Create(&reset).Error)

	handler := tasks.NewHandler(db, testutil.SilentLogger(), nil)
	require.NoError(t, handler.HandleTokenSweep(context.Background(), tasks.NewTokenSweepTask()))

	// Consumed and week-old expired tokens are gone; a recently expired
	// token survives until it ages out, and live tokens are untouched.
	var remaining []models.EmailVerificationToken
	require.NoError(t, db.Find(&remaining).Error)
	tokens := make([]string, 0, len(remaining))
	for _, tok := range remaining {
		tokens = append(tokens, tok.Token)
	}
	assert.ElementsMatch(t, []string{"recently-expired", "live"}, tokens)

	var resetCount int64
	db.Model(&models.PasswordResetToken{}).Count(&resetCount)
	assert.EqualValues(t, 0, resetCount)
}
