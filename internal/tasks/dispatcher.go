package tasks

import (
	"context"
	"log/slog"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/hibiken/asynq"
)

// QueueDispatcher enqueues email tasks for the worker. When no queue is
// available (redis down or absent) it falls back to the direct sender so
// the API keeps working in degraded mode.
type QueueDispatcher struct {
	client   *asynq.Client
	fallback account.Dispatcher
	logger   *slog.Logger
}

var _ account.Dispatcher = (*QueueDispatcher)(nil)

func NewQueueDispatcher(client *asynq.Client, fallback account.Dispatcher, logger *slog.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, fallback: fallback, logger: logger}
}

func (d *QueueDispatcher) SendVerification(ctx context.Context, user *models.User, token string) error {
	if d.client == nil {
		return d.fallback.SendVerification(ctx, user, token)
	}
	task, err := NewVerificationEmailTask(emailPayload(user, token))
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *QueueDispatcher) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	if d.client == nil {
		return d.fallback.SendPasswordReset(ctx, user, token)
	}
	task, err := NewPasswordResetEmailTask(emailPayload(user, token))
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *QueueDispatcher) SendPasswordChanged(ctx context.Context, user *models.User) error {
	if d.client == nil {
		return d.fallback.SendPasswordChanged(ctx, user)
	}
	task, err := NewPasswordChangedEmailTask(emailPayload(user, ""))
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *QueueDispatcher) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	d.logger.Debug("enqueued email task", "task_id", info.ID, "type", task.Type())
	return nil
}

func emailPayload(user *models.User, token string) EmailPayload {
	return EmailPayload{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		Token:     token,
	}
}
