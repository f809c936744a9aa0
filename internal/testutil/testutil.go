package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.RestaurantProfile{},
		&models.ProviderProfile{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// SilentLogger returns a logger that discards everything.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser creates a user with the given role plus its generic
// profile. Password is always "testpassword123".
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role, active bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     active,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	profile := &models.UserProfile{UserID: user.ID}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test user profile: %v", err)
	}
	user.Profile = profile

	return user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", time.Hour, 24*time.Hour)
}

// GenerateTestToken generates a valid access token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	pair, err := jwtService.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return pair.Access
}

// FakeDispatcher records dispatched mail instead of sending it.
type FakeDispatcher struct {
	mu sync.Mutex

	Verifications    []FakeMessage
	Resets           []FakeMessage
	PasswordChanges  []FakeMessage
	FailVerification bool
	FailReset        bool
}

type FakeMessage struct {
	Email string
	Token string
}

var errSendFailed = errors.New("send failed")

func (d *FakeDispatcher) SendVerification(ctx context.Context, user *models.User, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailVerification {
		return errSendFailed
	}
	d.Verifications = append(d.Verifications, FakeMessage{Email: user.Email, Token: token})
	return nil
}

func (d *FakeDispatcher) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailReset {
		return errSendFailed
	}
	d.Resets = append(d.Resets, FakeMessage{Email: user.Email, Token: token})
	return nil
}

func (d *FakeDispatcher) SendPasswordChanged(ctx context.Context, user *models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.PasswordChanges = append(d.PasswordChanges, FakeMessage{Email: user.Email})
	return nil
}

// LastVerificationToken returns the token from the most recent
// verification mail, or empty.
func (d *FakeDispatcher) LastVerificationToken() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Verifications) == 0 {
		return ""
	}
	return d.Verifications[len(d.Verifications)-1].Token
}

// LastResetToken returns the token from the most recent reset mail, or empty.
func (d *FakeDispatcher) LastResetToken() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Resets) == 0 {
		return ""
	}
	return d.Resets[len(d.Resets)-1].Token
}

// NewTestService wires an account service against the test database and
// a fake dispatcher.
func NewTestService(t *testing.T, db *gorm.DB) (*account.Service, *FakeDispatcher) {
	t.Helper()

	dispatcher := &FakeDispatcher{}
	svc := account.NewService(db, CreateTestJWTService(), dispatcher, SilentLogger(), 24*time.Hour, 2*time.Hour)
	return svc, dispatcher
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Service    *account.Service
	Dispatcher *FakeDispatcher
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, account service,
// an active restaurant user, and a valid access token for them.
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	dispatcher := &FakeDispatcher{}
	svc := account.NewService(db, jwtService, dispatcher, SilentLogger(), 24*time.Hour, 2*time.Hour)
	user := CreateTestUser(t, db, models.RoleRestaurant, true)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Service:    svc,
		Dispatcher: dispatcher,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}
