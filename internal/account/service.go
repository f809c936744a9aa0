package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service implements the account workflows: registration, login, profile
// management, and the token-based verification and reset flows in
// tokens.go.
type Service struct {
	db              *gorm.DB
	jwt             *auth.JWTService
	mail            Dispatcher
	logger          *slog.Logger
	verificationTTL time.Duration
	resetTTL        time.Duration
}

func NewService(db *gorm.DB, jwt *auth.JWTService, mail Dispatcher, logger *slog.Logger, verificationTTL, resetTTL time.Duration) *Service {
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 2 * time.Hour
	}
	return &Service{
		db:              db,
		jwt:             jwt,
		mail:            mail,
		logger:          logger,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

type RegisterInput struct {
	Email      string
	FirstName  string
	LastName   string
	Password   string
	Role       models.Role
	Restaurant *models.RestaurantProfile
	Provider   *models.ProviderProfile
}

type RegisterResult struct {
	User      *models.User
	EmailSent bool
}

// Register creates the user (inactive), its generic profile, and the
// role-specific profile in one transaction, then issues a verification
// token and dispatches the email. Delivery failure is reported, not
// fatal.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := models.NormalizeEmail(input.Email)

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		IsActive:     false,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			// The unique email index is the authority; there is no
			// read-first check, so a concurrent duplicate cannot race
			// past it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		if err := tx.Create(&models.UserProfile{UserID: user.ID}).Error; err != nil {
			return err
		}
		switch input.Role {
		case models.RoleRestaurant:
			input.Restaurant.UserID = user.ID
			return tx.Create(input.Restaurant).Error
		case models.RoleProvider:
			input.Provider.UserID = user.ID
			return tx.Create(input.Provider).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sent, err := s.issueVerification(ctx, &user)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{User: &user, EmailSent: sent}, nil
}

type LoginInput struct {
	Email    string
	Password string
	Role     models.Role
}

type AuthResponse struct {
	Tokens *auth.TokenPair
	User   *models.User
}

// Login authenticates credentials scoped to the claimed role. A correct
// password with a wrong claimed role fails with the same generic error as
// a bad password.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Role != input.Role {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	tokens, err := s.jwt.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	bundle, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Tokens: tokens, User: bundle}, nil
}

// IssueTokenPair authenticates bare credentials without role scoping and
// returns a fresh access/refresh pair.
func (s *Service) IssueTokenPair(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return s.jwt.GeneratePair(user.ID, user.Email, user.Role)
}

// GetUser loads the identity plus its generic profile and the profile
// matching its role. The other role's profile is never attached.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := s.db.WithContext(ctx).Preload("Profile")

	var user models.User
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	switch user.Role {
	case models.RoleRestaurant:
		var rp models.RestaurantProfile
		if err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&rp).Error; err == nil {
			user.Restaurant = &rp
		}
	case models.RoleProvider:
		var pp models.ProviderProfile
		if err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&pp).Error; err == nil {
			user.Provider = &pp
		}
	}

	return &user, nil
}

type ProfileUpdate struct {
	Phone   *string
	Address *string
	City    *string
	Country *string
	ZipCode *string
}

type RestaurantUpdate struct {
	RestaurantName *string
	Description    *string
	Email          *string
	Phone          *string
	Website        *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	Country        *string
	BusinessType   *int
	TaxID          *string
	FoundedYear    *string
	Capacity       *string
	OpeningHours   *string

	EmailNotifications *bool
	SMSNotifications   *bool
	OrderUpdates       *bool
	MarketingEmails    *bool
}

type ProviderUpdate struct {
	CompanyName  *string
	Description  *string
	Email        *string
	Phone        *string
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	BusinessType *int
	TaxID        *string
	FoundedYear  *string

	EmailNotifications *bool
	SMSNotifications   *bool
	OrderUpdates       *bool
	MarketingEmails    *bool
}

type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	Profile    *ProfileUpdate
	Restaurant *RestaurantUpdate
	Provider   *ProviderUpdate
}

// UpdateProfile applies a partial update of the user's name fields, the
// generic profile, and the role-appropriate business profile as one
// atomic unit. Email and role are immutable through this path; nested
// payloads for the other role are ignored, matching the original
// behavior.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userCols := map[string]interface{}{}
		setString(userCols, "first_name", input.FirstName)
		setString(userCols, "last_name", input.LastName)
		if len(userCols) > 0 {
			if err := tx.Model(&user).Updates(userCols).Error; err != nil {
				return err
			}
		}

		if input.Profile != nil {
			cols := map[string]interface{}{}
			setString(cols, "phone", input.Profile.Phone)
			setString(cols, "address", input.Profile.Address)
			setString(cols, "city", input.Profile.City)
			setString(cols, "country", input.Profile.Country)
			setString(cols, "zip_code", input.Profile.ZipCode)
			if len(cols) > 0 {
				if err := tx.Model(&models.UserProfile{}).
					Where("user_id = ?", id).
					Updates(cols).Error; err != nil {
					return err
				}
			}
		}

		if user.Role == models.RoleRestaurant && input.Restaurant != nil {
			cols := restaurantCols(input.Restaurant)
			if len(cols) > 0 {
				if err := tx.Model(&models.RestaurantProfile{}).
					Where("user_id = ?", id).
					Updates(cols).Error; err != nil {
					return err
				}
			}
		}

		if user.Role == models.RoleProvider && input.Provider != nil {
			cols := providerCols(input.Provider)
			if len(cols) > 0 {
				if err := tx.Model(&models.ProviderProfile{}).
					Where("user_id = ?", id).
					Updates(cols).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, id)
}

// ChangePassword rotates the hash for an authenticated user. The
// authentication context is the capability; no token is involved.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	if err := auth.ValidatePassword(newPassword, user.Email, user.FirstName, user.LastName); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error; err != nil {
		return err
	}

	s.notifyPasswordChanged(ctx, &user)
	return nil
}

func (s *Service) notifyPasswordChanged(ctx context.Context, user *models.User) {
	if err := s.mail.SendPasswordChanged(ctx, user); err != nil {
		s.logger.Warn("failed to send password-changed email", "user_id", user.ID, "error", err)
	}
}

func setString(cols map[string]interface{}, name string, v *string) {
	if v != nil {
		cols[name] = *v
	}
}

func setInt(cols map[string]interface{}, name string, v *int) {
	if v != nil {
		cols[name] = *v
	}
}

func setBool(cols map[string]interface{}, name string, v *bool) {
	if v != nil {
		cols[name] = *v
	}
}

func restaurantCols(u *RestaurantUpdate) map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "restaurant_name", u.RestaurantName)
	setString(cols, "description", u.Description)
	setString(cols, "email", u.Email)
	setString(cols, "phone", u.Phone)
	setString(cols, "website", u.Website)
	setString(cols, "address", u.Address)
	setString(cols, "city", u.City)
	setString(cols, "state", u.State)
	setString(cols, "zip_code", u.ZipCode)
	setString(cols, "country", u.Country)
	setInt(cols, "business_type", u.BusinessType)
	setString(cols, "tax_id", u.TaxID)
	setString(cols, "founded_year", u.FoundedYear)
	setString(cols, "capacity", u.Capacity)
	setString(cols, "opening_hours", u.OpeningHours)
	setBool(cols, "email_notifications", u.EmailNotifications)
	setBool(cols, "sms_notifications", u.SMSNotifications)
	setBool(cols, "order_updates", u.OrderUpdates)
	setBool(cols, "marketing_emails", u.MarketingEmails)
	return cols
}

func providerCols(u *ProviderUpdate) map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "company_name", u.CompanyName)
	setString(cols, "description", u.Description)
	setString(cols, "email", u.Email)
	setString(cols, "phone", u.Phone)
	setString(cols, "address", u.Address)
	setString(cols, "city", u.City)
	setString(cols, "state", u.State)
	setString(cols, "zip_code", u.ZipCode)
	setString(cols, "country", u.Country)
	setInt(cols, "business_type", u.BusinessType)
	setString(cols, "tax_id", u.TaxID)
	setString(cols, "founded_year", u.FoundedYear)
	setBool(cols, "email_notifications", u.EmailNotifications)
	setBool(cols, "sms_notifications", u.SMSNotifications)
	setBool(cols, "order_updates", u.OrderUpdates)
	setBool(cols, "marketing_emails", u.MarketingEmails)
	return cols
}
