package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
)

// Mailer implements port.Mailer over an SMTP relay.
type Mailer struct {
	client *gomail.Client
	cfg    config.SMTPSettings
	log    *zap.Logger
}

// NewMailer constructs the SMTP mailer.
func NewMailer(cfg config.SMTPSettings, log *zap.Logger) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.StartTLS {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}

	return &Mailer{client: client, cfg: cfg, log: log}, nil
}

func (m *Mailer) send(ctx context.Context, to string, msg message, attachments ...string) error {
	mm := gomail.NewMsg()
	if err := mm.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := mm.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	mm.Subject(msg.Subject)
	mm.SetBodyString(gomail.TypeTextPlain, msg.Text)
	mm.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)

	for _, path := range attachments {
		if path != "" {
			mm.AttachFile(path)
		}
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		m.log.Warn("email delivery failed",
			zap.String("to", logger.MaskEmail(to)),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// SendOTPCode delivers a login one-time code.
func (m *Mailer) SendOTPCode(ctx context.Context, to, name, code string) error {
	return m.send(ctx, to, otpMessage(name, code))
}

// SendPasswordReset delivers a password reset code.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, code string) error {
	return m.send(ctx, to, passwordResetMessage(name, code))
}

// SendPasswordSetup delivers the initial password setup code after approval.
func (m *Mailer) SendPasswordSetup(ctx context.Context, to, name, code string) error {
	return m.send(ctx, to, passwordSetupMessage(name, code))
}

// SendTwoFactorSetup delivers the 2FA enrollment confirmation code.
func (m *Mailer) SendTwoFactorSetup(ctx context.Context, to, name, code string) error {
	return m.send(ctx, to, twoFactorSetupMessage(name, code))
}

// SendAccountApproved notifies a member their account is active.
func (m *Mailer) SendAccountApproved(ctx context.Context, to, name string) error {
	return m.send(ctx, to, accountApprovedMessage(name))
}

// SendProjectNotice notifies the association inbox of a new project proposal.
func (m *Mailer) SendProjectNotice(ctx context.Context, to string, project domain.Project, authorName string) error {
	return m.send(ctx, to, projectNoticeMessage(project.Title, authorName, project.Budget))
}

// SendPaymentConfirmation thanks the payer, attaching the receipt when present.
func (m *Mailer) SendPaymentConfirmation(ctx context.Context, to, name string, payment domain.Payment, receiptPath string) error {
	msg := paymentConfirmationMessage(name, payment.Amount, strings.ToUpper(payment.Currency), string(payment.Kind))
	if receiptPath != "" {
		return m.send(ctx, to, msg, receiptPath)
	}
	return m.send(ctx, to, msg)
}
