package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// PasswordService drives the reset and first-time setup flows. Both are
// code-based: a single-use code is mailed, and the new password is accepted
// only with a valid, unexpired code for the right purpose.
type PasswordService struct {
	cfg        *config.AppConfig
	accounts   port.AccountRepository
	codes      port.CodeStore
	rateLimits port.RateLimitStore
	validator  *security.PasswordValidator
	mailer     port.Mailer
	publisher  port.EventPublisher
	log        *zap.Logger
	now        func() time.Time
}

// NewPasswordService constructs a PasswordService instance.
func NewPasswordService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	codes port.CodeStore,
	rateLimits port.RateLimitStore,
	validator *security.PasswordValidator,
	mailer port.Mailer,
	publisher port.EventPublisher,
	log *zap.Logger,
) *PasswordService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}

	return &PasswordService{
		cfg:        cfg,
		accounts:   accounts,
		codes:      codes,
		rateLimits: rateLimits,
		validator:  validator,
		mailer:     mailer,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *PasswordService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// RequestReset mails a reset code when the email belongs to an active
// account. The caller always gets a nil error for unknown emails so the
// endpoint cannot be used to probe the member list.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	if err := s.checkRateLimit(ctx, "password-reset:"+email); err != nil {
		return err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	if !account.Active {
		return nil
	}

	code, err := security.GenerateNumericCode(s.cfg.Codes.Length)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	if _, err := s.codes.Store(ctx, domain.CodePurposePasswordReset, email, code, s.cfg.Codes.TTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, account.Email, account.FullName(), code); err != nil {
		if delErr := s.codes.Delete(ctx, domain.CodePurposePasswordReset, email); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			s.log.Warn("rollback reset code failed",
				zap.String("email", logger.MaskEmail(email)),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("send reset code: %w", err)
	}

	return nil
}

// Reset replaces the password of an existing account using a reset code.
func (s *PasswordService) Reset(ctx context.Context, email, code, newPassword string) error {
	return s.applyCode(ctx, domain.CodePurposePasswordReset, email, code, newPassword, "reset")
}

// Setup sets the first password of a freshly approved account.
func (s *PasswordService) Setup(ctx context.Context, email, code, newPassword string) error {
	return s.applyCode(ctx, domain.CodePurposePasswordSetup, email, code, newPassword, "setup")
}

func (s *PasswordService) applyCode(ctx context.Context, purpose domain.CodePurpose, email, code, newPassword, reason string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || code == "" {
		return ErrInvalidOTP
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return err
	}

	pending, err := s.codes.Get(ctx, purpose, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("fetch code: %w", err)
	}

	if pending.Expired(s.now().UTC()) {
		_ = s.codes.Delete(ctx, purpose, email)
		return ErrCodeExpired
	}

	if !security.CodesEqual(pending.Code, code) {
		attempts, incErr := s.codes.IncrementAttempts(ctx, purpose, email)
		if incErr == nil && s.cfg.Codes.MaxAttempts > 0 && attempts >= s.cfg.Codes.MaxAttempts {
			_ = s.codes.Delete(ctx, purpose, email)
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Single use: the code dies with the change it authorized.
	if err := s.codes.Delete(ctx, purpose, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("consume code failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}

	if err := s.publisher.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		AccountID: account.ID,
		ChangedAt: changedAt,
		Reason:    reason,
	}); err != nil {
		s.log.Warn("publish password changed failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}

	return nil
}

func (s *PasswordService) checkRateLimit(ctx context.Context, identifier string) error {
	if s.rateLimits == nil || s.cfg.RateLimit.PasswordResetMaxAttempts <= 0 {
		return nil
	}

	window := s.cfg.RateLimit.WindowDuration
	if window <= 0 {
		return nil
	}

	now := s.now().UTC()
	if err := s.rateLimits.TrimWindow(ctx, identifier, window, now); err != nil {
		return fmt.Errorf("trim rate window: %w", err)
	}

	count, err := s.rateLimits.CountAttempts(ctx, identifier, window, now)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	if count >= s.cfg.RateLimit.PasswordResetMaxAttempts {
		return ErrRateLimited
	}

	if err := s.rateLimits.RecordAttempt(ctx, identifier, now); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	return nil
}
