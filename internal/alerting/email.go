package alerting

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"kalimati-price-tracker/internal/storage"
)

// EmailOptions configure SMTP delivery.
type EmailOptions struct {
	Server   string
	Port     int
	Address  string
	Password string
	Sender   string
}

// EmailNotifier delivers alerts over plain SMTP.
type EmailNotifier struct {
	opts   EmailOptions
	logger zerolog.Logger

	// send is swapped out in tests.
	send func(mail *email.Email) error
}

// NewEmailNotifier constructs an SMTP notifier.
func NewEmailNotifier(opts EmailOptions, logger zerolog.Logger) *EmailNotifier {
	n := &EmailNotifier{
		opts:   opts,
		logger: logger.With().Str("component", "alert_email").Logger(),
	}
	n.send = n.sendSMTP
	return n
}

// Notify sends one alert message to the notification's recipient.
func (n *EmailNotifier) Notify(ctx context.Context, note Notification) error {
	if note.Recipient == "" {
		return fmt.Errorf("email notification has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := n.opts.Sender
	if sender == "" {
		sender = n.opts.Address
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Kalimati Price Tracker <%s>", sender)
	mail.To = []string{note.Recipient}
	mail.Subject = renderSubject(note)
	mail.Text = []byte(renderText(note))
	mail.HTML = []byte(renderHTML(note))

	if err := n.send(mail); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	n.logger.Info().
		Str("recipient", note.Recipient).
		Str("date", note.Date.Format(storage.DateFormat)).
		Int("records", len(note.Records)).
		Msg("alert email sent")
	return nil
}

func (n *EmailNotifier) sendSMTP(mail *email.Email) error {
	addr := fmt.Sprintf("%s:%d", n.opts.Server, n.opts.Port)
	err := mail.Send(addr, smtp.PlainAuth("", n.opts.Address, n.opts.Password, n.opts.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}

var _ Notifier = (*EmailNotifier)(nil)
