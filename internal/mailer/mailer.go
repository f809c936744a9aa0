package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/digitalorder/accounts/internal/account"
	"github.com/digitalorder/accounts/internal/database/models"
	"github.com/digitalorder/accounts/pkg/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional email synchronously over SMTP.
type Mailer struct {
	cfg    *config.MailConfig
	logger *slog.Logger
}

var _ account.Dispatcher = (*Mailer)(nil)

func New(cfg *config.MailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) SendVerification(ctx context.Context, user *models.User, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.FrontendURL, token)
	body := verificationBody(user.FirstName, link)
	return m.send(user.Email, "Verify your DigitalOrder account", body)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.FrontendURL, token)
	body := resetBody(user.FirstName, link)
	return m.send(user.Email, "Reset your password - DigitalOrder", body)
}

func (m *Mailer) SendPasswordChanged(ctx context.Context, user *models.User) error {
	body := passwordChangedBody(user.FirstName, time.Now())
	return m.send(user.Email, "Your password has been changed - DigitalOrder", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}

	m.logger.Debug("sent email", "to", to, "subject", subject)
	return nil
}

const layout = `<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background-color: #f8f9fa; padding: 20px; text-align: center;">
      <h1 style="color: #333;">DigitalOrder</h1>
    </div>
    <div style="padding: 30px;">%s</div>
    <div style="background-color: #f8f9fa; padding: 20px; text-align: center; color: #666; font-size: 12px;">
      <p>&copy; DigitalOrder. All rights reserved.</p>
    </div>
  </body>
</html>`

func verificationBody(firstName, link string) string {
	firstName = html.EscapeString(firstName)
	content := fmt.Sprintf(`<h2>Hello %s!</h2>
<p>Thanks for signing up with DigitalOrder. To complete your registration,
please verify your email address by clicking the button below:</p>
<div style="text-align: center; margin: 30px 0;">
  <a href="%s" style="background-color: #28a745; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email</a>
</div>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #666;">%s</p>
<p style="color: #666; font-size: 14px; margin-top: 30px;">
  This link expires in 24 hours. If you did not request this verification,
  you can ignore this email.
</p>`, firstName, link, link)
	return fmt.Sprintf(layout, content)
}

func resetBody(firstName, link string) string {
	firstName = html.EscapeString(firstName)
	content := fmt.Sprintf(`<h2>Password Recovery</h2>
<p>Hello %s,</p>
<p>We received a request to reset your password. If you did not make this
request, you can ignore this email.</p>
<div style="text-align: center; margin: 30px 0;">
  <a href="%s" style="background-color: #007bff; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
</div>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #666;">%s</p>
<p style="color: #666; font-size: 14px; margin-top: 30px;">
  For your security, this link expires in 2 hours.
</p>`, firstName, link, link)
	return fmt.Sprintf(layout, content)
}

func passwordChangedBody(firstName string, at time.Time) string {
	firstName = html.EscapeString(firstName)
	content := fmt.Sprintf(`<h2>Password Updated</h2>
<p>Hello %s,</p>
<p>Your password was changed successfully.</p>
<div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; border-radius: 5px; margin: 20px 0;">
  <p style="margin: 0; color: #856404;">
    <strong>Important:</strong> if you did not make this change, contact our
    support team immediately.
  </p>
</div>
<p>Changed at: %s</p>`, firstName, at.Format("02/01/2006 15:04"))
	return fmt.Sprintf(layout, content)
}
