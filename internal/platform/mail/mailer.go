package mail

import (
	"context"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/platform/config"
)

// smtpNotifier delivers notifications over SMTP. Delivery failures are
// logged and swallowed: notification is best-effort enrichment of a state
// transition, never part of its outcome.
type smtpNotifier struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// logNotifier records notifications to the log instead of sending them.
// Used when no SMTP transport is configured.
type logNotifier struct {
	logger *slog.Logger
}

// NewNotifier builds the notifier for the current configuration: SMTP when a
// host is configured, otherwise a log-backed recorder.
func NewNotifier(cfg *config.Config, logger *slog.Logger) portssvc.Notifier {
	if cfg.SMTPHost == "" {
		return &logNotifier{logger: logger}
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		logger.Error("Failed to build SMTP client, falling back to log notifier", slog.String("error", err.Error()))
		return &logNotifier{logger: logger}
	}
	return &smtpNotifier{client: client, from: cfg.SMTPFrom, logger: logger}
}

func (n *smtpNotifier) Notify(ctx context.Context, recipient string, subject string, body string) {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		n.logger.Error("Invalid notification sender", slog.String("from", n.from), slog.String("error", err.Error()))
		return
	}
	if err := msg.To(recipient); err != nil {
		n.logger.Error("Invalid notification recipient", slog.String("recipient", recipient), slog.String("error", err.Error()))
		return
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.logger.Error("Failed to send notification",
			slog.String("recipient", recipient),
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return
	}
	n.logger.Info("Notification sent", slog.String("recipient", recipient), slog.String("subject", subject))
}

func (n *logNotifier) Notify(_ context.Context, recipient string, subject string, body string) {
	n.logger.Info("Notification (mail not configured)",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body))
}
