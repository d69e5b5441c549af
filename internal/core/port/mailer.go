package port

import (
	"context"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// Mailer sends the platform's transactional email.
//
// Every method delivers a templated HTML message with a plain-text
// alternative. Failures are returned to the caller; OTP-issuing flows use
// the error to roll back the stored pending code.
type Mailer interface {
	SendOTPCode(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, code string) error
	SendPasswordSetup(ctx context.Context, to, name, code string) error
	SendTwoFactorSetup(ctx context.Context, to, name, code string) error
	SendAccountApproved(ctx context.Context, to, name string) error
	SendProjectNotice(ctx context.Context, to string, project domain.Project, authorName string) error
	// SendPaymentConfirmation attaches the receipt when receiptPath is not empty.
	SendPaymentConfirmation(ctx context.Context, to, name string, payment domain.Payment, receiptPath string) error
}
