package email

import (
	"context"

	"leadflow_backend/platform/config"
)

// Sender delivers the engine's notification e-mails.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, assigneeName, leadName, leadURL string) error
	SendDealClosedEmail(ctx context.Context, toEmail string, deal DealSummary) error
	SendTaskReminderEmail(ctx context.Context, toEmail string, task TaskSummary) error
}

// DealSummary is what a won/lost e-mail shows about a deal.
type DealSummary struct {
	Title      string
	Stage      string
	DealValue  float64
	Currency   string
	LostReason string
	URL        string
}

// TaskSummary is what a reminder shows about a task.
type TaskSummary struct {
	Title    string
	LeadName string
	DueDate  string
	DueTime  string
	Priority string
	URL      string
}

type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail, assigneeName, leadName, leadURL string) error {
	return nil
}

func (NoopSender) SendDealClosedEmail(ctx context.Context, toEmail string, deal DealSummary) error {
	return nil
}

func (NoopSender) SendTaskReminderEmail(ctx context.Context, toEmail string, task TaskSummary) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured and a no-op
// sender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
