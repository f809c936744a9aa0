package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalorder/accounts/internal/api/dto"
	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/digitalorder/accounts/internal/testutil"
)

func TestVerificationFlow(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	// Register, confirm via emailed token, then log in.
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/register", registerBody("flow@example.com"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	token := tc.Dispatcher.LastVerificationToken()
	require.NotEmpty(t, token)

	// Login before confirmation is refused.
	login := map[string]interface{}{
		"email":    "flow@example.com",
		"password": "plum-orbit-lantern",
		"role":     1,
	}
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/login", login)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	// Confirm via the GET link from the email.
	req = testutil.UnauthenticatedRequest(t, "GET", "/api/v1/verify-email/confirm?token="+token, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	// Token is single use.
	req = testutil.UnauthenticatedRequest(t, "GET", "/api/v1/verify-email/confirm?token="+token, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	// Login now succeeds.
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/login", login)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestVerificationHandler_Request(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	t.Run("resend for inactive user", func(t *testing.T) {
		user := testutil.CreateTestUser(t, tc.DB, models.RoleRestaurant, false)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/verify-email/request", map[string]string{
			"email": user.Email,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp dto.SuccessResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotNil(t, resp.EmailSent)
		assert.True(t, *resp.EmailSent)
	})

	t.Run("active account", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/verify-email/request", map[string]string{
			"email": tc.User.Email,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/verify-email/request", map[string]string{
			"email": "nobody@example.com",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("malformed email", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/verify-email/request", map[string]string{
			"email": "not-an-email",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/password-reset/request", map[string]string{
		"email": tc.User.Email,
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	token := tc.Dispatcher.LastResetToken()
	require.NotEmpty(t, token)

	t.Run("mismatched confirmation", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/password-reset/confirm/"+token, map[string]string{
			"new_password":     "plum-orbit-lantern",
			"confirm_password": "something-else",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("confirm rotates the password", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/password-reset/confirm/"+token, map[string]string{
			"new_password":     "plum-orbit-lantern",
			"confirm_password": "plum-orbit-lantern",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		login := map[string]interface{}{
			"email":    tc.User.Email,
			"password": "plum-orbit-lantern",
			"role":     1,
		}
		loginReq := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/login", login)
		loginRR := httptest.NewRecorder()
		router.ServeHTTP(loginRR, loginReq)
		testutil.AssertStatus(t, loginRR, http.StatusOK)
	})

	t.Run("consumed token is rejected", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/password-reset/confirm/"+token, map[string]string{
			"new_password":     "another-fine-pass",
			"confirm_password": "another-fine-pass",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("reset for inactive account is refused", func(t *testing.T) {
		user := testutil.CreateTestUser(t, tc.DB, models.RoleRestaurant, false)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/password-reset/request", map[string]string{
			"email": user.Email,
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}
