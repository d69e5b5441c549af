package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
)

func newPasswordFixture(accounts ...domain.Account) (*PasswordService, *accountRepoStub, *codeStoreStub, *rateLimitStub, *mailerStub, *publisherStub) {
	cfg := testConfig()
	repo := newAccountRepoStub(accounts...)
	codes := newCodeStoreStub()
	rateLimits := newRateLimitStub()
	mailer := newMailerStub()
	publisher := newPublisherStub()
	svc := NewPasswordService(cfg, repo, codes, rateLimits, nil, mailer, publisher, testLogger())
	return svc, repo, codes, rateLimits, mailer, publisher
}

func TestRequestResetMailsCode(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, codes, _, mailer, _ := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	pending, err := codes.Get(context.Background(), domain.CodePurposePasswordReset, account.Email)
	if err != nil {
		t.Fatalf("expected stored reset code: %v", err)
	}
	if got := mailer.lastCode("password_reset"); got != pending.Code {
		t.Fatalf("mailed code %q does not match stored code %q", got, pending.Code)
	}
}

func TestRequestResetSilentForUnknownEmail(t *testing.T) {
	svc, _, _, _, mailer, _ := newPasswordFixture()

	if err := svc.RequestReset(context.Background(), "nobody@example.org"); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail for unknown email, got %d messages", len(mailer.sent))
	}
}

func TestRequestResetSilentForInactiveAccount(t *testing.T) {
	account := memberAccount("old password 9")
	account.Active = false
	svc, _, codes, _, mailer, _ := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("expected nil for inactive account, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail for inactive account")
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposePasswordReset, account.Email); err == nil {
		t.Fatalf("expected no stored code for inactive account")
	}
}

func TestRequestResetRollsBackCodeWhenMailFails(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, codes, _, mailer, _ := newPasswordFixture(account)
	mailer.failAll = errors.New("smtp down")

	if err := svc.RequestReset(context.Background(), account.Email); err == nil {
		t.Fatalf("expected error when mail delivery fails")
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposePasswordReset, account.Email); err == nil {
		t.Fatalf("expected pending code to be rolled back")
	}
}

func TestRequestResetRateLimited(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, _, rateLimits, _, _ := newPasswordFixture(account)

	now := time.Now().UTC()
	for i := 0; i < testConfig().RateLimit.PasswordResetMaxAttempts; i++ {
		if err := rateLimits.RecordAttempt(context.Background(), "password-reset:"+account.Email, now); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	if err := svc.RequestReset(context.Background(), account.Email); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestResetReplacesPassword(t *testing.T) {
	account := memberAccount("old password 9")
	svc, repo, codes, _, mailer, publisher := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	code := mailer.lastCode("password_reset")
	if err := svc.Reset(context.Background(), account.Email, code, "fresh password 7"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	updated, err := repo.GetByEmail(context.Background(), account.Email)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	ok, err := security.VerifyPassword("fresh password 7", updated.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password does not verify: ok=%v err=%v", ok, err)
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposePasswordReset, account.Email); err == nil {
		t.Fatalf("expected reset code to be consumed")
	}
	if len(publisher.passwords) != 1 || publisher.passwords[0].AccountID != account.ID {
		t.Fatalf("expected one password changed event for %s, got %+v", account.ID, publisher.passwords)
	}
}

func TestResetRejectsWeakPassword(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, _, _, mailer, _ := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	err := svc.Reset(context.Background(), account.Email, mailer.lastCode("password_reset"), "short")
	var policyErr *security.PasswordValidationError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordValidationError, got %v", err)
	}
}

func TestResetRejectsExpiredCode(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, _, _, mailer, _ := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	svc.WithClock(func() time.Time {
		return time.Now().Add(testConfig().Codes.TTL + time.Minute)
	})

	err := svc.Reset(context.Background(), account.Email, mailer.lastCode("password_reset"), "fresh password 7")
	if !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
}

func TestResetLocksAfterTooManyAttempts(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, codes, _, _, _ := newPasswordFixture(account)

	if err := svc.RequestReset(context.Background(), account.Email); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	maxAttempts := testConfig().Codes.MaxAttempts
	for i := 0; i < maxAttempts-1; i++ {
		if err := svc.Reset(context.Background(), account.Email, "000000", "fresh password 7"); !errors.Is(err, ErrInvalidOTP) {
			t.Fatalf("attempt %d: expected ErrInvalidOTP, got %v", i+1, err)
		}
	}
	if err := svc.Reset(context.Background(), account.Email, "000000", "fresh password 7"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposePasswordReset, account.Email); err == nil {
		t.Fatalf("expected code to be deleted after lockout")
	}
}

func TestSetupRequiresMatchingPurpose(t *testing.T) {
	account := memberAccount("old password 9")
	svc, _, codes, _, _, _ := newPasswordFixture(account)

	// A reset code must not authorize the first-password setup flow.
	pending, err := codes.Store(context.Background(), domain.CodePurposePasswordReset, account.Email, "123456", testConfig().Codes.TTL)
	if err != nil {
		t.Fatalf("store code: %v", err)
	}

	if err := svc.Setup(context.Background(), account.Email, pending.Code, "fresh password 7"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP for wrong purpose, got %v", err)
	}
}

func TestSetupSetsFirstPassword(t *testing.T) {
	account := memberAccount("placeholder pw 1")
	svc, repo, _, _, _, _ := newPasswordFixture(account)

	codes := svc.codes
	if _, err := codes.Store(context.Background(), domain.CodePurposePasswordSetup, account.Email, "654321", testConfig().Codes.TTL); err != nil {
		t.Fatalf("store code: %v", err)
	}

	if err := svc.Setup(context.Background(), account.Email, "654321", "fresh password 7"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	updated, err := repo.GetByEmail(context.Background(), account.Email)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if ok, _ := security.VerifyPassword("fresh password 7", updated.PasswordHash); !ok {
		t.Fatalf("first password does not verify")
	}
}
