package dto

import (
	"github.com/digitalorder/accounts/internal/api/validation"
	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Role      int    `json:"role"`

	RestaurantProfile *RestaurantProfilePayload `json:"restaurant_profile,omitempty"`
	ProviderProfile   *ProviderProfilePayload   `json:"provider_profile,omitempty"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.FirstName == "" {
		errors["first_name"] = "First name is required"
	}
	if r.LastName == "" {
		errors["last_name"] = "Last name is required"
	}

	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if r.Password != r.Password2 {
		errors["password"] = "Password fields didn't match"
	} else if err := auth.ValidatePassword(r.Password, r.Email, r.FirstName, r.LastName); err != nil {
		errors["password"] = err.Error()
	}

	role := models.Role(r.Role)
	if !role.Valid() {
		errors["role"] = "Invalid role specified"
		return errors
	}

	switch role {
	case models.RoleRestaurant:
		if r.RestaurantProfile == nil {
			errors["restaurant_profile"] = "Restaurant profile data is required for restaurant role"
		} else {
			for field, msg := range r.RestaurantProfile.Validate() {
				errors["restaurant_profile."+field] = msg
			}
		}
		if r.ProviderProfile != nil {
			errors["provider_profile"] = "Provider profile is not allowed for restaurant role"
		}
	case models.RoleProvider:
		if r.ProviderProfile == nil {
			errors["provider_profile"] = "Provider profile data is required for provider role"
		} else {
			for field, msg := range r.ProviderProfile.Validate() {
				errors["provider_profile."+field] = msg
			}
		}
		if r.RestaurantProfile != nil {
			errors["restaurant_profile"] = "Restaurant profile is not allowed for provider role"
		}
	case models.RoleSuperuser:
		if r.RestaurantProfile != nil || r.ProviderProfile != nil {
			errors["role"] = "Admin users should not provide profile data"
		}
	}

	return errors
}

type RestaurantProfilePayload struct {
	RestaurantName string `json:"restaurant_name"`
	Description    string `json:"description"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Website        string `json:"website"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	BusinessType   int    `json:"business_type"`
	TaxID          string `json:"tax_id"`
	FoundedYear    string `json:"founded_year"`
	Capacity       string `json:"capacity"`
	OpeningHours   string `json:"opening_hours"`
}

func (p RestaurantProfilePayload) Validate() map[string]string {
	errors := make(map[string]string)
	if p.RestaurantName == "" {
		errors["restaurant_name"] = "Restaurant name is required"
	}
	if p.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(p.Email) {
		errors["email"] = "Invalid email format"
	}
	if p.Phone == "" {
		errors["phone"] = "Phone is required"
	}
	if p.Address == "" {
		errors["address"] = "Address is required"
	}
	if p.City == "" {
		errors["city"] = "City is required"
	}
	if p.State == "" {
		errors["state"] = "State is required"
	}
	if p.ZipCode == "" {
		errors["zip_code"] = "Zip code is required"
	}
	if p.TaxID == "" {
		errors["tax_id"] = "Tax ID is required"
	}
	if p.FoundedYear == "" {
		errors["founded_year"] = "Founded year is required"
	}
	if p.Capacity == "" {
		errors["capacity"] = "Capacity is required"
	}
	if p.OpeningHours == "" {
		errors["opening_hours"] = "Opening hours are required"
	}
	return errors
}

func (p RestaurantProfilePayload) Model() *models.RestaurantProfile {
	return &models.RestaurantProfile{
		RestaurantName: p.RestaurantName,
		Description:    p.Description,
		Email:          p.Email,
		Phone:          p.Phone,
		Website:        p.Website,
		Address:        p.Address,
		City:           p.City,
		State:          p.State,
		ZipCode:        p.ZipCode,
		Country:        p.Country,
		BusinessType:   p.BusinessType,
		TaxID:          p.TaxID,
		FoundedYear:    p.FoundedYear,
		Capacity:       p.Capacity,
		OpeningHours:   p.OpeningHours,
	}
}

type ProviderProfilePayload struct {
	CompanyName  string `json:"company_name"`
	Description  string `json:"description"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
	BusinessType int    `json:"business_type"`
	TaxID        string `json:"tax_id"`
	FoundedYear  string `json:"founded_year"`
}

func (p ProviderProfilePayload) Validate() map[string]string {
	errors := make(map[string]string)
	if p.CompanyName == "" {
		errors["company_name"] = "Company name is required"
	}
	if p.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(p.Email) {
		errors["email"] = "Invalid email format"
	}
	if p.Phone == "" {
		errors["phone"] = "Phone is required"
	}
	if p.Address == "" {
		errors["address"] = "Address is required"
	}
	if p.City == "" {
		errors["city"] = "City is required"
	}
	if p.State == "" {
		errors["state"] = "State is required"
	}
	if p.ZipCode == "" {
		errors["zip_code"] = "Zip code is required"
	}
	if p.TaxID == "" {
		errors["tax_id"] = "Tax ID is required"
	}
	if p.FoundedYear == "" {
		errors["founded_year"] = "Founded year is required"
	}
	return errors
}

func (p ProviderProfilePayload) Model() *models.ProviderProfile {
	return &models.ProviderProfile{
		CompanyName:  p.CompanyName,
		Description:  p.Description,
		Email:        p.Email,
		Phone:        p.Phone,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Country:      p.Country,
		BusinessType: p.BusinessType,
		TaxID:        p.TaxID,
		FoundedYear:  p.FoundedYear,
	}
}

type RegisterResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      int    `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     int    `json:"role"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	// Only restaurant and provider accounts log in through this endpoint.
	role := models.Role(r.Role)
	if role != models.RoleRestaurant && role != models.RoleProvider {
		errors["role"] = "Invalid role"
	}

	return errors
}

type LoginResponse struct {
	Message string      `json:"message"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    interface{} `json:"user"`
}

type TokenObtainRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r TokenObtainRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	return errors
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

type TokenVerifyRequest struct {
	Token string `json:"token"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
