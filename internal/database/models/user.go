package models

import (
	"strings"
	"time"
)

// Role is the account kind, fixed at registration.
type Role int

const (
	RoleRestaurant Role = 1
	RoleProvider   Role = 2
	RoleSuperuser  Role = 2193
)

func (r Role) Valid() bool {
	return r == RoleRestaurant || r == RoleProvider || r == RoleSuperuser
}

func (r Role) String() string {
	switch r {
	case RoleRestaurant:
		return "restaurant"
	case RoleProvider:
		return "provider"
	case RoleSuperuser:
		return "admin"
	default:
		return "unknown"
	}
}

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         Role       `gorm:"not null;default:1" json:"role"`
	IsActive     bool       `gorm:"default:false" json:"is_active"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	IsStaff      bool       `gorm:"default:false" json:"is_staff"`
	IsSuperadmin bool       `gorm:"default:false" json:"is_superadmin"`
	LastLoginAt  *time.Time `json:"last_login,omitempty"`

	// Relationships
	Profile    *UserProfile       `gorm:"foreignKey:UserID" json:"user_profile,omitempty"`
	Restaurant *RestaurantProfile `gorm:"foreignKey:UserID" json:"restaurant,omitempty"`
	Provider   *ProviderProfile   `gorm:"foreignKey:UserID" json:"provider,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
