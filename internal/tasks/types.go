package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeVerificationEmail    = "email:verification"
	TypePasswordResetEmail   = "email:password_reset"
	TypePasswordChangedEmail = "email:password_changed"
	TypeTokenSweep           = "tokens:sweep"
)

// EmailPayload carries enough of the recipient to render a message
// without another lookup; the token is empty for password-changed
// notifications.
type EmailPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Token     string    `json:"token,omitempty"`
}

func NewVerificationEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeVerificationEmail, data), nil
}

func NewPasswordResetEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, data), nil
}

func NewPasswordChangedEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordChangedEmail, data), nil
}

// NewTokenSweepTask has no payload - the sweep covers both token tables.
func NewTokenSweepTask() *asynq.Task {
	return asynq.NewTask(TypeTokenSweep, nil)
}
