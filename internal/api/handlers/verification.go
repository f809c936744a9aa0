package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/api/dto"
	"github.com/digitalorder/accounts/internal/auth"
)

// VerificationHandler serves the email-verification and password-reset
// token workflows.
type VerificationHandler struct {
	accounts *account.Service
}

func NewVerificationHandler(accounts *account.Service) *VerificationHandler {
	return &VerificationHandler{accounts: accounts}
}

func (h *VerificationHandler) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	sent, err := h.accounts.RequestVerification(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No account found for this email"})
		case errors.Is(err, account.ErrAlreadyActive):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Account is already active"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to send verification email"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{
		Message:   "Verification email sent.",
		EmailSent: &sent,
	})
}

// ConfirmEmailVerification accepts the token either as a ?token= query
// parameter (the emailed link) or in a JSON body.
func (h *VerificationHandler) ConfirmEmailVerification(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" && r.Method == http.MethodPost {
		var req dto.ConfirmVerificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Token is required"})
		return
	}

	if err := h.accounts.ConfirmVerification(r.Context(), token); err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to verify email"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Email verified successfully. Your account is now active."})
}

func (h *VerificationHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	sent, err := h.accounts.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No account found for this email"})
		case errors.Is(err, account.ErrInactiveAccount):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account is not active. Please verify your email first."})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to send password reset email"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{
		Message:   "Password reset email sent.",
		EmailSent: &sent,
	})
}

func (h *VerificationHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Token is required"})
		return
	}

	var req dto.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if err := h.accounts.ConfirmPasswordReset(r.Context(), token, req.NewPassword); err != nil {
		var policyErr *auth.PolicyError
		switch {
		case errors.Is(err, account.ErrInvalidToken):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid or expired token"})
		case errors.As(err, &policyErr):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"new_password": policyErr.Reason},
			})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to reset password"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password reset successfully. You can now log in with your new password."})
}
