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

// TokenPair bundles the access and refresh tokens returned on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// LoginResult is the outcome of a credential check. When OTPRequired is
// set the tokens are empty and the caller must complete the OTP step.
type LoginResult struct {
	OTPRequired bool
	Account     *domain.Account
	Tokens      *TokenPair
}

// AuthService coordinates login, OTP verification, and token lifecycle.
type AuthService struct {
	cfg        *config.AppConfig
	accounts   port.AccountRepository
	codes      port.CodeStore
	denylist   port.TokenDenylist
	rateLimits port.RateLimitStore
	tokens     *security.TokenManager
	mailer     port.Mailer
	log        *zap.Logger
	now        func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	codes port.CodeStore,
	denylist port.TokenDenylist,
	rateLimits port.RateLimitStore,
	tokens *security.TokenManager,
	mailer port.Mailer,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		cfg:        cfg,
		accounts:   accounts,
		codes:      codes,
		denylist:   denylist,
		rateLimits: rateLimits,
		tokens:     tokens,
		mailer:     mailer,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Login checks credentials. Accounts with 2FA enabled receive a one-time
// code by email and get no tokens until verification; the rest are issued a
// token pair directly.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.checkRateLimit(ctx, "login:"+email, s.cfg.RateLimit.LoginMaxAttempts); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a comparison so unknown emails cost the same as bad passwords.
			_, _ = security.VerifyPassword(password, "")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !account.Active {
		return nil, ErrInactiveAccount
	}

	if account.TwoFactorEnabled {
		if err := s.issueLoginCode(ctx, *account); err != nil {
			return nil, err
		}
		// The password already checked out, so the profile can be shown
		// while the caller completes the code step.
		sanitized := *account
		sanitized.PasswordHash = ""
		return &LoginResult{OTPRequired: true, Account: &sanitized}, nil
	}

	pair, err := s.issueTokens(*account)
	if err != nil {
		return nil, err
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return &LoginResult{Account: &sanitized, Tokens: pair}, nil
}

func (s *AuthService) issueLoginCode(ctx context.Context, account domain.Account) error {
	code, err := security.GenerateNumericCode(s.cfg.Codes.Length)
	if err != nil {
		return fmt.Errorf("generate login code: %w", err)
	}

	if _, err := s.codes.Store(ctx, domain.CodePurposeLoginOTP, account.Email, code, s.cfg.Codes.TTL); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}

	if err := s.mailer.SendOTPCode(ctx, account.Email, account.FullName(), code); err != nil {
		// A code the user never received must not stay verifiable.
		if delErr := s.codes.Delete(ctx, domain.CodePurposeLoginOTP, account.Email); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			s.log.Warn("rollback login code failed",
				zap.String("email", logger.MaskEmail(account.Email)),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("send login code: %w", err)
	}

	return nil
}

// VerifyOTP completes a 2FA login by matching the emailed code.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || code == "" {
		return nil, ErrInvalidOTP
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The endpoint is only reachable mid-flow, so the unknown-email
			// answer does not have to hide behind the generic code error.
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !account.Active {
		return nil, ErrInactiveAccount
	}

	pending, err := s.codes.Get(ctx, domain.CodePurposeLoginOTP, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("fetch login code: %w", err)
	}

	if pending.Expired(s.now().UTC()) {
		_ = s.codes.Delete(ctx, domain.CodePurposeLoginOTP, email)
		return nil, ErrCodeExpired
	}

	if !security.CodesEqual(pending.Code, code) {
		attempts, incErr := s.codes.IncrementAttempts(ctx, domain.CodePurposeLoginOTP, email)
		if incErr == nil && s.cfg.Codes.MaxAttempts > 0 && attempts >= s.cfg.Codes.MaxAttempts {
			_ = s.codes.Delete(ctx, domain.CodePurposeLoginOTP, email)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidOTP
	}

	if err := s.codes.Delete(ctx, domain.CodePurposeLoginOTP, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("consume login code: %w", err)
	}

	pair, err := s.issueTokens(*account)
	if err != nil {
		return nil, err
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return &LoginResult{Account: &sanitized, Tokens: pair}, nil
}

// Refresh rotates a refresh token: the old token's jti is denied and a new
// pair is issued. A replayed token fails the denylist check.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, ErrExpiredRefreshToken
		}
		return nil, ErrInvalidRefreshToken
	}

	denied, err := s.denylist.IsDenied(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if denied {
		return nil, ErrInvalidRefreshToken
	}

	account, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !account.Active {
		return nil, ErrInactiveAccount
	}

	if err := s.denylist.Deny(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("deny rotated token: %w", err)
	}

	return s.issueTokens(*account)
}

// Logout revokes the presented refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		// Expired or malformed tokens cannot be replayed anyway.
		return nil
	}

	if err := s.denylist.Deny(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("deny token: %w", err)
	}

	return nil
}

// Authenticate validates an access token and loads the account behind it.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Account, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !account.Active {
		return nil, ErrInactiveAccount
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

func (s *AuthService) issueTokens(account domain.Account) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefreshToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) checkRateLimit(ctx context.Context, identifier string, maxAttempts int) error {
	if s.rateLimits == nil || maxAttempts <= 0 {
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
	if count >= maxAttempts {
		return ErrRateLimited
	}

	if err := s.rateLimits.RecordAttempt(ctx, identifier, now); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	return nil
}
