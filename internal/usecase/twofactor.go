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

// TwoFactorService manages enabling and disabling email OTP on accounts.
//
// Enabling is a two-step flow: a setup code is mailed first, and 2FA turns
// on only after the owner proves mailbox access by echoing it back.
type TwoFactorService struct {
	cfg      *config.AppConfig
	accounts port.AccountRepository
	codes    port.CodeStore
	mailer   port.Mailer
	log      *zap.Logger
	now      func() time.Time
}

// NewTwoFactorService constructs a TwoFactorService instance.
func NewTwoFactorService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	codes port.CodeStore,
	mailer port.Mailer,
	log *zap.Logger,
) *TwoFactorService {
	return &TwoFactorService{
		cfg:      cfg,
		accounts: accounts,
		codes:    codes,
		mailer:   mailer,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *TwoFactorService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// RequestSetup mails a confirmation code to the account owner.
func (s *TwoFactorService) RequestSetup(ctx context.Context, account domain.Account) error {
	if account.TwoFactorEnabled {
		return ErrTwoFactorAlreadyEnabled
	}

	code, err := security.GenerateNumericCode(s.cfg.Codes.Length)
	if err != nil {
		return fmt.Errorf("generate setup code: %w", err)
	}

	if _, err := s.codes.Store(ctx, domain.CodePurposeTwoFactorSetup, account.Email, code, s.cfg.Codes.TTL); err != nil {
		return fmt.Errorf("store setup code: %w", err)
	}

	if err := s.mailer.SendTwoFactorSetup(ctx, account.Email, account.FullName(), code); err != nil {
		if delErr := s.codes.Delete(ctx, domain.CodePurposeTwoFactorSetup, account.Email); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			s.log.Warn("rollback setup code failed",
				zap.String("email", logger.MaskEmail(account.Email)),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("send setup code: %w", err)
	}

	return nil
}

// ConfirmSetup turns 2FA on once the mailed code is echoed back.
func (s *TwoFactorService) ConfirmSetup(ctx context.Context, account domain.Account, code string) error {
	if account.TwoFactorEnabled {
		return ErrTwoFactorAlreadyEnabled
	}

	pending, err := s.codes.Get(ctx, domain.CodePurposeTwoFactorSetup, account.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("fetch setup code: %w", err)
	}

	if pending.Expired(s.now().UTC()) {
		_ = s.codes.Delete(ctx, domain.CodePurposeTwoFactorSetup, account.Email)
		return ErrCodeExpired
	}

	if !security.CodesEqual(pending.Code, code) {
		attempts, incErr := s.codes.IncrementAttempts(ctx, domain.CodePurposeTwoFactorSetup, account.Email)
		if incErr == nil && s.cfg.Codes.MaxAttempts > 0 && attempts >= s.cfg.Codes.MaxAttempts {
			_ = s.codes.Delete(ctx, domain.CodePurposeTwoFactorSetup, account.Email)
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}

	if err := s.codes.Delete(ctx, domain.CodePurposeTwoFactorSetup, account.Email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("consume setup code: %w", err)
	}

	if err := s.accounts.SetTwoFactor(ctx, account.ID, true); err != nil {
		return fmt.Errorf("enable two-factor: %w", err)
	}

	return nil
}

// Disable turns 2FA off after re-checking the account password.
func (s *TwoFactorService) Disable(ctx context.Context, account domain.Account, password string) error {
	if !account.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}

	stored, err := s.accounts.GetByID(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(password, stored.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	if err := s.accounts.SetTwoFactor(ctx, account.ID, false); err != nil {
		return fmt.Errorf("disable two-factor: %w", err)
	}

	return nil
}
