package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/expenseops/receipt-relay/internal/common"
)

// SMTPConfig for the mail notifier. Sender and recipient are deployment
// configuration, never request parameters.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Sender    string
	Recipient string
}

// SMTPNotifier sends the receipt summary as a multipart text+HTML email.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(n.cfg.Sender); err != nil {
		return fmt.Errorf("%w: sender address: %v", common.ErrNotification, err)
	}
	if err := m.To(n.cfg.Recipient); err != nil {
		return fmt.Errorf("%w: recipient address: %v", common.ErrNotification, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	c, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: smtp client: %v", common.ErrNotification, err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotification, err)
	}

	n.logger.Info("notify.sent", "to", n.cfg.Recipient, "subject", msg.Subject)
	return nil
}
