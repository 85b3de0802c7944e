package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yoockh/placementcell/internal/models"
)

// StatusChange describes an admin status update on an application.
type StatusChange struct {
	StudentName  string
	StudentEmail string
	JobName      string
	Company      string
	Status       models.ApplicationStatus
}

type Notifier interface {
	ApplicationStatusChanged(ctx context.Context, c StatusChange) error
}

// Noop is used when no mail provider is configured.
type Noop struct{}

func (Noop) ApplicationStatusChanged(context.Context, StatusChange) error { return nil }

type SendGrid struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGrid(apiKey, from, fromName string) *SendGrid {
	return &SendGrid{client: sendgrid.NewSendClient(apiKey), from: from, fromName: fromName}
}

func (s *SendGrid) ApplicationStatusChanged(ctx context.Context, c StatusChange) error {
	if c.StudentEmail == "" {
		return nil
	}
	resp, err := s.client.SendWithContext(ctx, statusMail(s.from, s.fromName, c))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func statusMail(from, fromName string, c StatusChange) *mail.SGMailV3 {
	subject := fmt.Sprintf("Application update: %s at %s", c.JobName, c.Company)
	status := humanStatus(c.Status)
	plain := fmt.Sprintf("Hi %s,\n\nYour application for %s at %s is now %s.\n\nPlacement Cell",
		c.StudentName, c.JobName, c.Company, status)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your application for <strong>%s</strong> at %s is now <strong>%s</strong>.</p><p>Placement Cell</p>",
		c.StudentName, c.JobName, c.Company, status)

	return mail.NewSingleEmail(
		mail.NewEmail(fromName, from),
		subject,
		mail.NewEmail(c.StudentName, c.StudentEmail),
		plain,
		html,
	)
}

func humanStatus(s models.ApplicationStatus) string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}
