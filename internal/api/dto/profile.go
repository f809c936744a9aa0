package dto

import (
	"strings"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/api/validation"
)

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`

	UserProfile       *UserProfileUpdatePayload       `json:"user_profile,omitempty"`
	RestaurantProfile *RestaurantProfileUpdatePayload `json:"restaurant_profile,omitempty"`
	ProviderProfile   *ProviderProfileUpdatePayload   `json:"provider_profile,omitempty"`
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		errors["first_name"] = "First name cannot be blank"
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		errors["last_name"] = "Last name cannot be blank"
	}
	if r.RestaurantProfile != nil && r.RestaurantProfile.Email != nil &&
		*r.RestaurantProfile.Email != "" && !validation.IsValidEmail(*r.RestaurantProfile.Email) {
		errors["restaurant_profile.email"] = "Invalid email format"
	}
	if r.ProviderProfile != nil && r.ProviderProfile.Email != nil &&
		*r.ProviderProfile.Email != "" && !validation.IsValidEmail(*r.ProviderProfile.Email) {
		errors["provider_profile.email"] = "Invalid email format"
	}
	return errors
}

func (r UpdateProfileRequest) Input() account.UpdateProfileInput {
	input := account.UpdateProfileInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
	if r.UserProfile != nil {
		input.Profile = &account.ProfileUpdate{
			Phone:   r.UserProfile.Phone,
			Address: r.UserProfile.Address,
			City:    r.UserProfile.City,
			Country: r.UserProfile.Country,
			ZipCode: r.UserProfile.ZipCode,
		}
	}
	if r.RestaurantProfile != nil {
		p := r.RestaurantProfile
		input.Restaurant = &account.RestaurantUpdate{
			RestaurantName:     p.RestaurantName,
			Description:        p.Description,
			Email:              p.Email,
			Phone:              p.Phone,
			Website:            p.Website,
			Address:            p.Address,
			City:               p.City,
			State:              p.State,
			ZipCode:            p.ZipCode,
			Country:            p.Country,
			BusinessType:       p.BusinessType,
			TaxID:              p.TaxID,
			FoundedYear:        p.FoundedYear,
			Capacity:           p.Capacity,
			OpeningHours:       p.OpeningHours,
			EmailNotifications: p.EmailNotifications,
			SMSNotifications:   p.SMSNotifications,
			OrderUpdates:       p.OrderUpdates,
			MarketingEmails:    p.MarketingEmails,
		}
	}
	if r.ProviderProfile != nil {
		p := r.ProviderProfile
		input.Provider = &account.ProviderUpdate{
			CompanyName:        p.CompanyName,
			Description:        p.Description,
			Email:              p.Email,
			Phone:              p.Phone,
			Address:            p.Address,
			City:               p.City,
			State:              p.State,
			ZipCode:            p.ZipCode,
			Country:            p.Country,
			BusinessType:       p.BusinessType,
			TaxID:              p.TaxID,
			FoundedYear:        p.FoundedYear,
			EmailNotifications: p.EmailNotifications,
			SMSNotifications:   p.SMSNotifications,
			OrderUpdates:       p.OrderUpdates,
			MarketingEmails:    p.MarketingEmails,
		}
	}
	return input
}

// UserProfileUpdatePayload carries only the writable profile fields;
// verification and IP-tracking columns are never client-writable.
type UserProfileUpdatePayload struct {
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	ZipCode *string `json:"zip_code,omitempty"`
}

type RestaurantProfileUpdatePayload struct {
	RestaurantName *string `json:"restaurant_name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Website        *string `json:"website,omitempty"`
	Address        *string `json:"address,omitempty"`
	City           *string `json:"city,omitempty"`
	State          *string `json:"state,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	Country        *string `json:"country,omitempty"`
	BusinessType   *int    `json:"business_type,omitempty"`
	TaxID          *string `json:"tax_id,omitempty"`
	FoundedYear    *string `json:"founded_year,omitempty"`
	Capacity       *string `json:"capacity,omitempty"`
	OpeningHours   *string `json:"opening_hours,omitempty"`

	EmailNotifications *bool `json:"email_notifications,omitempty"`
	SMSNotifications   *bool `json:"sms_notifications,omitempty"`
	OrderUpdates       *bool `json:"order_updates,omitempty"`
	MarketingEmails    *bool `json:"marketing_emails,omitempty"`
}

type ProviderProfileUpdatePayload struct {
	CompanyName  *string `json:"company_name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	ZipCode      *string `json:"zip_code,omitempty"`
	Country      *string `json:"country,omitempty"`
	BusinessType *int    `json:"business_type,omitempty"`
	TaxID        *string `json:"tax_id,omitempty"`
	FoundedYear  *string `json:"founded_year,omitempty"`

	EmailNotifications *bool `json:"email_notifications,omitempty"`
	SMSNotifications   *bool `json:"sms_notifications,omitempty"`
	OrderUpdates       *bool `json:"order_updates,omitempty"`
	MarketingEmails    *bool `json:"marketing_emails,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

func (r EmailRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	return errors
}

type ConfirmVerificationRequest struct {
	Token string `json:"token"`
}

type ResetConfirmRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r ResetConfirmRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if r.NewPassword != r.ConfirmPassword {
		errors["new_password"] = "New password fields didn't match"
	}
	return errors
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r ChangePasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.OldPassword == "" {
		errors["old_password"] = "Old password is required"
	}
	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if r.NewPassword != r.ConfirmPassword {
		errors["new_password"] = "New password fields didn't match"
	}
	return errors
}
