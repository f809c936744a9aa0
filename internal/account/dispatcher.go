package account

import (
	"context"

	"github.com/digitalorder/accounts/internal/database/models"
)

// Dispatcher delivers transactional email. Implementations may send
// synchronously over SMTP or enqueue to a background worker; either way
// the workflow treats a returned error as "email_sent: false" and never
// rolls back on it.
type Dispatcher interface {
	SendVerification(ctx context.Context, user *models.User, token string) error
	SendPasswordReset(ctx context.Context, user *models.User, token string) error
	SendPasswordChanged(ctx context.Context, user *models.User) error
}
