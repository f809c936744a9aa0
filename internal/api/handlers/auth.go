package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/api/dto"
	"github.com/digitalorder/accounts/internal/api/validation"
	"github.com/digitalorder/accounts/internal/auth"
	"github.com/digitalorder/accounts/internal/database/models"
)

type AuthHandler struct {
	accounts *account.Service
	jwt      *auth.JWTService
}

func NewAuthHandler(accounts *account.Service, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	input := account.RegisterInput{
		Email:     req.Email,
		FirstName: cleanName(req.FirstName),
		LastName:  cleanName(req.LastName),
		Password:  req.Password,
		Role:      models.Role(req.Role),
	}
	if req.RestaurantProfile != nil {
		input.Restaurant = req.RestaurantProfile.Model()
	}
	if req.ProviderProfile != nil {
		input.Provider = req.ProviderProfile.Model()
	}

	result, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"email": "A user with this email already exists"},
			})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Registration failed"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message:   "User registered successfully. Please check your email to activate your account.",
		EmailSent: result.EmailSent,
		UserID:    result.User.ID.String(),
		Email:     result.User.Email,
		Role:      int(result.User.Role),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	resp, err := h.accounts.Login(r.Context(), account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid login credentials"})
		case errors.Is(err, account.ErrInactiveAccount):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account is not active. Please verify your email."})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful.",
		Access:  resp.Tokens.Access,
		Refresh: resp.Tokens.Refresh,
		User:    resp.User,
	})
}

// TokenObtain issues an access/refresh pair from bare credentials,
// without role scoping. Inactive accounts are still rejected.
func (h *AuthHandler) TokenObtain(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenObtainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	pair, err := h.accounts.IssueTokenPair(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid login credentials"})
		case errors.Is(err, account.ErrInactiveAccount):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account is not active. Please verify your email."})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Token issuance failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) TokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Refresh token is required"})
		return
	}

	access, err := h.jwt.RefreshAccess(req.Refresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Token is invalid or expired"})
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenPairResponse{Access: access})
}

func (h *AuthHandler) TokenVerify(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Token is required"})
		return
	}

	if _, err := h.jwt.Validate(req.Token); err != nil {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Token is invalid or expired"})
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// cleanName strips control characters and caps the stored length.
func cleanName(s string) string {
	return validation.TruncateString(validation.SanitizeString(strings.TrimSpace(s)), 150)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
