package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// RegistrationInput carries a membership application.
type RegistrationInput struct {
	Email       string
	FirstName   string
	LastName    string
	Birthdate   *time.Time
	Phone       *string
	CGUAccepted bool
}

// RegistrationService handles membership applications and admin approval.
//
// Applications create inactive accounts without a password. Approval
// activates the account and mails a password setup code; the applicant
// chooses their password through the setup flow.
type RegistrationService struct {
	cfg       *config.AppConfig
	accounts  port.AccountRepository
	codes     port.CodeStore
	mailer    port.Mailer
	publisher port.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	codes port.CodeStore,
	mailer port.Mailer,
	publisher port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		cfg:       cfg,
		accounts:  accounts,
		codes:     codes,
		mailer:    mailer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *RegistrationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register files a membership application as an inactive account.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(input.Email)
	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case input.FirstName == "" || input.LastName == "":
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	case !input.CGUAccepted:
		return nil, fmt.Errorf("%w: terms of use must be accepted", ErrValidation)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:          uuid.NewString(),
		Email:       email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        domain.RoleMember,
		Active:      false,
		CGUAccepted: true,
		Birthdate:   input.Birthdate,
		Phone:       input.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.publisher.PublishAccountRegistered(ctx, domain.AccountRegisteredEvent{
		AccountID:    account.ID,
		Email:        account.Email,
		RegisteredAt: now,
	}); err != nil {
		s.log.Warn("publish account registered failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}

	s.log.Info("membership application received",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
	)

	return &account, nil
}

// Approve activates a pending account and mails a password setup code.
// Only administrators reach this path; the handler enforces the role.
func (s *RegistrationService) Approve(ctx context.Context, approver domain.Account, accountID string) error {
	if !approver.IsAdmin() {
		return ErrForbidden
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	if account.Active {
		return fmt.Errorf("%w: account already active", ErrEmailTaken)
	}

	code, err := security.GenerateNumericCode(s.cfg.Codes.Length)
	if err != nil {
		return fmt.Errorf("generate setup code: %w", err)
	}

	if _, err := s.codes.Store(ctx, domain.CodePurposePasswordSetup, account.Email, code, s.cfg.Codes.TTL); err != nil {
		return fmt.Errorf("store setup code: %w", err)
	}

	if err := s.mailer.SendPasswordSetup(ctx, account.Email, account.FullName(), code); err != nil {
		if delErr := s.codes.Delete(ctx, domain.CodePurposePasswordSetup, account.Email); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			s.log.Warn("rollback setup code failed",
				zap.String("email", logger.MaskEmail(account.Email)),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("send setup code: %w", err)
	}

	if err := s.accounts.SetActive(ctx, account.ID, true); err != nil {
		return fmt.Errorf("activate account: %w", err)
	}

	if err := s.mailer.SendAccountApproved(ctx, account.Email, account.FullName()); err != nil {
		s.log.Warn("send approval notice failed",
			zap.String("email", logger.MaskEmail(account.Email)),
			zap.Error(err),
		)
	}

	if err := s.publisher.PublishAccountApproved(ctx, domain.AccountApprovedEvent{
		AccountID:  account.ID,
		Email:      account.Email,
		ApprovedBy: approver.ID,
		ApprovedAt: s.now().UTC(),
	}); err != nil {
		s.log.Warn("publish account approved failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}

	return nil
}
