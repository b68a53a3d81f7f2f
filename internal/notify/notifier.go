// Package notify is the narrow interface to email delivery. Dispatch is
// fire-and-forget at every call site: a failed send is logged and never
// rolls back or fails the mutation that triggered it.
package notify

import (
	"context"
	"log/slog"
)

// Email templates used by the account lifecycle flows.
const (
	TemplateWelcome         = "welcome"
	TemplatePendingApproval = "pending_approval"
	TemplateRoleChanged     = "role_changed"
	TemplateAccountBanned   = "account_banned"
	TemplateAccountUnbanned = "account_unbanned"
)

type Email struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type Notifier interface {
	Send(ctx context.Context, email Email) error
}

// logNotifier records outgoing notifications through the structured log.
// Real delivery happens out of process; this keeps the interface honest in
// development and tests.
type logNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(_ context.Context, email Email) error {
	n.logger.Info("email notification dispatched",
		"to", email.To,
		"subject", email.Subject,
		"template", email.Template,
	)
	return nil
}
