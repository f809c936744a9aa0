package account

import (
	"context"
	"errors"
	"time"

	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
	"gorm.io/gorm"
)

// Token-based verification and reset workflows. The invariants that
// matter live here: a token is usable iff unconsumed and strictly before
// its expiry, issuing a new token retires every outstanding one of the
// same kind, and redemption consumes the token and applies its side
// effects in a single transaction. Concurrent redemptions are serialized
// by a conditional UPDATE on the consumed flag: the losing transaction
// sees zero affected rows and fails with the same generic error as a
// token that never existed.

// RequestVerification issues a fresh verification token for an inactive
// account and emails it. Returns whether the email went out.
func (s *Service) RequestVerification(ctx context.Context, email string) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if user.IsActive {
		return false, ErrAlreadyActive
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(&models.EmailVerificationToken{}).
		Where("user_id = ? AND consumed = ? AND expires_at > ?", user.ID, false, now).
		Update("consumed", true).Error; err != nil {
		return false, err
	}

	return s.issueVerification(ctx, &user)
}

// issueVerification creates one verification token and dispatches it.
// The bool is the email_sent flag surfaced to the caller. Only delivery
// failure is non-fatal; failing to mint or store the token is an error.
func (s *Service) issueVerification(ctx context.Context, user *models.User) (bool, error) {
	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return false, err
	}

	token := models.EmailVerificationToken{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: time.Now().Add(s.verificationTTL),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return false, err
	}

	if err := s.mail.SendVerification(ctx, user, token.Token); err != nil {
		s.logger.Warn("failed to send verification email", "user_id", user.ID, "error", err)
		return false, nil
	}
	return true, nil
}

// ConfirmVerification redeems a verification token: the user becomes
// active, the profile is marked verified, and the token is consumed, all
// in one transaction.
func (s *Service) ConfirmVerification(ctx context.Context, tokenString string) error {
	now := time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.EmailVerificationToken
		if err := tx.Where("token = ?", tokenString).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if !token.Usable(now) {
			return ErrInvalidToken
		}

		res := tx.Model(&token).
			Where("consumed = ?", false).
			Update("consumed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Update("is_active", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.UserProfile{}).
			Where("user_id = ?", token.UserID).
			Updates(map[string]interface{}{
				"is_email_verified": true,
				"email_verified_at": now,
			}).Error
	})
}

// RequestPasswordReset issues a fresh reset token for an active account
// and emails it. Inactive accounts must verify first.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if !user.IsActive {
		return false, ErrInactiveAccount
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND consumed = ? AND expires_at > ?", user.ID, false, now).
		Update("consumed", true).Error; err != nil {
		return false, err
	}

	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return false, err
	}
	token := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: now.Add(s.resetTTL),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return false, err
	}

	if err := s.mail.SendPasswordReset(ctx, &user, token.Token); err != nil {
		s.logger.Warn("failed to send password reset email", "user_id", user.ID, "error", err)
		return false, nil
	}
	return true, nil
}

// ConfirmPasswordReset validates the new password, then atomically
// rotates the hash and consumes the token. Strength is checked before
// any mutation.
func (s *Service) ConfirmPasswordReset(ctx context.Context, tokenString, newPassword string) error {
	now := time.Now()

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		if err := tx.Where("token = ?", tokenString).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if !token.Usable(now) {
			return ErrInvalidToken
		}

		if err := tx.First(&user, "id = ?", token.UserID).Error; err != nil {
			return err
		}
		if err := auth.ValidatePassword(newPassword, user.Email, user.FirstName, user.LastName); err != nil {
			return err
		}

		res := tx.Model(&token).
			Where("consumed = ?", false).
			Update("consumed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		return tx.Model(&user).Update("password_hash", hash).Error
	})
	if err != nil {
		return err
	}

	s.notifyPasswordChanged(ctx, &user)
	return nil
}
