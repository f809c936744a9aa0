package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digitalorder/accounts/internal/api/dto"
)

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "rosa@example.com",
		FirstName: "Rosa",
		LastName:  "Marchetti",
		Password:  "plum-orbit-lantern",
		Password2: "plum-orbit-lantern",
		Role:      1,
		RestaurantProfile: &dto.RestaurantProfilePayload{
			RestaurantName: "Trattoria Rosa",
			Email:          "contacto@trattoriarosa.pe",
			Phone:          "+51 1 555 0134",
			Address:        "Av. Larco 812",
			City:           "Lima",
			State:          "Lima",
			ZipCode:        "15074",
			TaxID:          "20601234567",
			FoundedYear:    "2015",
			Capacity:       "40",
			OpeningHours:   "12:00-23:00",
		},
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		assert.Empty(t, validRegisterRequest().Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		errs := dto.RegisterRequest{Role: 1}.Validate()
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "first_name")
		assert.Contains(t, errs, "last_name")
		assert.Contains(t, errs, "password")
		assert.Contains(t, errs, "restaurant_profile")
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := validRegisterRequest()
		req.Password2 = "different"
		assert.Contains(t, req.Validate(), "password")
	})

	t.Run("password similar to identity is rejected", func(t *testing.T) {
		req := validRegisterRequest()
		req.Password = "rosa-marchetti1"
		req.Password2 = req.Password
		assert.Contains(t, req.Validate(), "password")
	})

	t.Run("unknown role", func(t *testing.T) {
		req := validRegisterRequest()
		req.Role = 7
		assert.Contains(t, req.Validate(), "role")
	})

	t.Run("restaurant role forbids provider profile", func(t *testing.T) {
		req := validRegisterRequest()
		req.ProviderProfile = &dto.ProviderProfilePayload{CompanyName: "Extra Co"}
		assert.Contains(t, req.Validate(), "provider_profile")
	})

	t.Run("provider role requires company profile", func(t *testing.T) {
		req := validRegisterRequest()
		req.Role = 2
		req.RestaurantProfile = nil
		errs := req.Validate()
		assert.Contains(t, errs, "provider_profile")
	})

	t.Run("restaurant profile requires a name", func(t *testing.T) {
		req := validRegisterRequest()
		req.RestaurantProfile = &dto.RestaurantProfilePayload{}
		assert.Contains(t, req.Validate(), "restaurant_profile.restaurant_name")
	})

	t.Run("restaurant profile requires full business details", func(t *testing.T) {
		req := validRegisterRequest()
		req.RestaurantProfile = &dto.RestaurantProfilePayload{RestaurantName: "Trattoria Rosa"}
		errs := req.Validate()
		for _, field := range []string{
			"email", "phone", "address", "city", "state", "zip_code",
			"tax_id", "founded_year", "capacity", "opening_hours",
		} {
			assert.Contains(t, errs, "restaurant_profile."+field)
		}
		// Optional columns stay optional.
		assert.NotContains(t, errs, "restaurant_profile.description")
		assert.NotContains(t, errs, "restaurant_profile.website")
		assert.NotContains(t, errs, "restaurant_profile.country")
	})

	t.Run("provider profile requires full business details", func(t *testing.T) {
		req := validRegisterRequest()
		req.Role = 2
		req.RestaurantProfile = nil
		req.ProviderProfile = &dto.ProviderProfilePayload{CompanyName: "Frutas del Valle"}
		errs := req.Validate()
		for _, field := range []string{
			"email", "phone", "address", "city", "state", "zip_code",
			"tax_id", "founded_year",
		} {
			assert.Contains(t, errs, "provider_profile."+field)
		}
		assert.NotContains(t, errs, "provider_profile.description")
		assert.NotContains(t, errs, "provider_profile.country")
	})

	t.Run("superuser role carries no profiles", func(t *testing.T) {
		req := validRegisterRequest()
		req.Role = 2193
		errs := req.Validate()
		assert.Contains(t, errs, "role")

		req.RestaurantProfile = nil
		assert.Empty(t, req.Validate())
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := dto.LoginRequest{Email: "rosa@example.com", Password: "x", Role: 1}
		assert.Empty(t, req.Validate())
	})

	t.Run("superuser role not allowed at this endpoint", func(t *testing.T) {
		req := dto.LoginRequest{Email: "rosa@example.com", Password: "x", Role: 2193}
		assert.Contains(t, req.Validate(), "role")
	})

	t.Run("missing credentials", func(t *testing.T) {
		errs := dto.LoginRequest{Role: 1}.Validate()
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})
}
