package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/digitalorder/accounts/internal/mailer"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// Handler processes queued email deliveries and token housekeeping in
// the worker binary.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	mailer *mailer.Mailer
}

func NewHandler(db *gorm.DB, logger *slog.Logger, m *mailer.Mailer) *Handler {
	return &Handler{db: db, logger: logger, mailer: m}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeVerificationEmail, h.HandleVerificationEmail)
	mux.HandleFunc(TypePasswordResetEmail, h.HandlePasswordResetEmail)
	mux.HandleFunc(TypePasswordChangedEmail, h.HandlePasswordChangedEmail)
	mux.HandleFunc(TypeTokenSweep, h.HandleTokenSweep)
}

func (h *Handler) HandleVerificationEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := decodeEmailPayload(t)
	if err != nil {
		return err
	}
	user := payload.recipient()

	h.logger.Info("delivering verification email", "user_id", payload.UserID)
	return h.mailer.SendVerification(ctx, user, payload.Token)
}

func (h *Handler) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := decodeEmailPayload(t)
	if err != nil {
		return err
	}
	user := payload.recipient()

	h.logger.Info("delivering password reset email", "user_id", payload.UserID)
	return h.mailer.SendPasswordReset(ctx, user, payload.Token)
}

func (h *Handler) HandlePasswordChangedEmail(ctx context.Context, t *asynq.Task) error {
	payload, err := decodeEmailPayload(t)
	if err != nil {
		return err
	}
	user := payload.recipient()

	h.logger.Info("delivering password changed email", "user_id", payload.UserID)
	return h.mailer.SendPasswordChanged(ctx, user)
}

// HandleTokenSweep deletes consumed tokens and tokens expired for more
// than a week. Validity is always computed at check time, so this is
// housekeeping only.
func (h *Handler) HandleTokenSweep(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	res := h.db.WithContext(ctx).
		Where("consumed = ? OR expires_at < ?", true, cutoff).
		Delete(&models.EmailVerificationToken{})
	if res.Error != nil {
		return fmt.Errorf("sweeping verification tokens: %w", res.Error)
	}
	removed := res.RowsAffected

	res = h.db.WithContext(ctx).
		Where("consumed = ? OR expires_at < ?", true, cutoff).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return fmt.Errorf("sweeping reset tokens: %w", res.Error)
	}
	removed += res.RowsAffected

	h.logger.Info("swept expired tokens", "removed", removed)
	return nil
}

func decodeEmailPayload(t *asynq.Task) (EmailPayload, error) {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("unmarshal payload: %w", err)
	}
	return payload, nil
}

func (p EmailPayload) recipient() *models.User {
	user := &models.User{
		Email:     p.Email,
		FirstName: p.FirstName,
	}
	user.ID = p.UserID
	return user
}
