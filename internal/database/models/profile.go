package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds the contact and location details shared by every
// account regardless of role. IsEmailVerified mirrors verification-token
// redemption and is only written by the verification workflow.
type UserProfile struct {
	Base
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Phone   string    `json:"phone"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	Country string    `json:"country"`
	ZipCode string    `json:"zip_code"`

	IsEmailVerified bool       `gorm:"default:false" json:"is_email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	// IP tracking
	Latitude          string     `json:"latitude"`
	Longitude         string     `json:"longitude"`
	LastKnownIP       string     `json:"last_known_ip"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
