package models

import "github.com/google/uuid"

// Restaurant business types
const (
	RestaurantTypeRestaurant = 1
	RestaurantTypeCafe       = 2
	RestaurantTypeBar        = 3
	RestaurantTypeFastFood   = 4
	RestaurantTypeFoodTruck  = 5
)

// Provider business types
const (
	ProviderTypeSoleProprietor = 1
	ProviderTypePartnership    = 2
	ProviderTypeCorporation    = 3
	ProviderTypeCooperative    = 4
	ProviderTypeLLC            = 5
)

// RestaurantProfile is the 1:1 business record for restaurant accounts.
type RestaurantProfile struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	RestaurantName string `gorm:"not null" json:"restaurant_name"`
	Description    string `json:"description"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Website        string `json:"website"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `gorm:"default:'Peru'" json:"country"`

	BusinessType int    `gorm:"default:1" json:"business_type"`
	TaxID        string `json:"tax_id"`
	FoundedYear  string `json:"founded_year"`
	Capacity     string `json:"capacity"`
	OpeningHours string `json:"opening_hours"`

	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	SMSNotifications   bool `gorm:"default:false" json:"sms_notifications"`
	OrderUpdates       bool `gorm:"default:true" json:"order_updates"`
	MarketingEmails    bool `gorm:"default:false" json:"marketing_emails"`
}

func (RestaurantProfile) TableName() string {
	return "restaurant_profiles"
}

// ProviderProfile is the 1:1 business record for supplier accounts.
type ProviderProfile struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	CompanyName string `gorm:"not null" json:"company_name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `gorm:"default:'Peru'" json:"country"`

	BusinessType int    `gorm:"default:3" json:"business_type"`
	TaxID        string `json:"tax_id"`
	FoundedYear  string `json:"founded_year"`

	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	SMSNotifications   bool `gorm:"default:false" json:"sms_notifications"`
	OrderUpdates       bool `gorm:"default:true" json:"order_updates"`
	MarketingEmails    bool `gorm:"default:false" json:"marketing_emails"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
