package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationToken is a single-use capability that activates an
// account. Validity is computed lazily: a token is usable iff it has not
// been consumed and now is strictly before ExpiresAt.
type EmailVerificationToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}

func (t *EmailVerificationToken) Usable(now time.Time) bool {
	return !t.Consumed && now.Before(t.ExpiresAt)
}

// PasswordResetToken is a single-use capability that rotates a password.
type PasswordResetToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Consumed && now.Before(t.ExpiresAt)
}
