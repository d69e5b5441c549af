package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

func newTwoFactorFixture(accounts ...domain.Account) (*TwoFactorService, *accountRepoStub, *codeStoreStub, *mailerStub) {
	cfg := testConfig()
	repo := newAccountRepoStub(accounts...)
	codes := newCodeStoreStub()
	mailer := newMailerStub()
	svc := NewTwoFactorService(cfg, repo, codes, mailer, testLogger())
	return svc, repo, codes, mailer
}

func TestTwoFactorSetupFlow(t *testing.T) {
	account := memberAccount("member password 5")
	svc, repo, codes, mailer := newTwoFactorFixture(account)

	if err := svc.RequestSetup(context.Background(), account); err != nil {
		t.Fatalf("request setup: %v", err)
	}

	code := mailer.lastCode("twofactor_setup")
	if code == "" {
		t.Fatalf("expected setup code to be mailed")
	}

	if err := svc.ConfirmSetup(context.Background(), account, code); err != nil {
		t.Fatalf("confirm setup: %v", err)
	}

	updated, err := repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if !updated.TwoFactorEnabled {
		t.Fatalf("expected 2FA to be enabled")
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposeTwoFactorSetup, account.Email); err == nil {
		t.Fatalf("expected setup code to be consumed")
	}
}

func TestTwoFactorSetupRejectsWhenAlreadyEnabled(t *testing.T) {
	account := memberAccount("member password 5")
	account.TwoFactorEnabled = true
	svc, _, _, _ := newTwoFactorFixture(account)

	if err := svc.RequestSetup(context.Background(), account); !errors.Is(err, ErrTwoFactorAlreadyEnabled) {
		t.Fatalf("expected ErrTwoFactorAlreadyEnabled, got %v", err)
	}
	if err := svc.ConfirmSetup(context.Background(), account, "123456"); !errors.Is(err, ErrTwoFactorAlreadyEnabled) {
		t.Fatalf("expected ErrTwoFactorAlreadyEnabled, got %v", err)
	}
}

func TestTwoFactorConfirmRejectsWrongCode(t *testing.T) {
	account := memberAccount("member password 5")
	svc, repo, _, _ := newTwoFactorFixture(account)

	if err := svc.RequestSetup(context.Background(), account); err != nil {
		t.Fatalf("request setup: %v", err)
	}

	if err := svc.ConfirmSetup(context.Background(), account, "000000"); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}

	updated, err := repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if updated.TwoFactorEnabled {
		t.Fatalf("2FA must stay off after a failed confirmation")
	}
}

func TestTwoFactorConfirmExpiredCode(t *testing.T) {
	account := memberAccount("member password 5")
	svc, _, _, mailer := newTwoFactorFixture(account)

	if err := svc.RequestSetup(context.Background(), account); err != nil {
		t.Fatalf("request setup: %v", err)
	}

	svc.WithClock(func() time.Time {
		return time.Now().Add(testConfig().Codes.TTL + time.Minute)
	})

	if err := svc.ConfirmSetup(context.Background(), account, mailer.lastCode("twofactor_setup")); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
}

func TestTwoFactorSetupRollsBackCodeWhenMailFails(t *testing.T) {
	account := memberAccount("member password 5")
	svc, _, codes, mailer := newTwoFactorFixture(account)
	mailer.failAll = errors.New("smtp down")

	if err := svc.RequestSetup(context.Background(), account); err == nil {
		t.Fatalf("expected setup to fail when mail delivery fails")
	}
	if _, err := codes.Get(context.Background(), domain.CodePurposeTwoFactorSetup, account.Email); err == nil {
		t.Fatalf("expected setup code to be rolled back")
	}
}

func TestTwoFactorDisableChecksPassword(t *testing.T) {
	account := memberAccount("member password 5")
	account.TwoFactorEnabled = true
	svc, repo, _, _ := newTwoFactorFixture(account)

	if err := svc.Disable(context.Background(), account, "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.Disable(context.Background(), account, "member password 5"); err != nil {
		t.Fatalf("disable: %v", err)
	}

	updated, err := repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if updated.TwoFactorEnabled {
		t.Fatalf("expected 2FA to be disabled")
	}
}

func TestTwoFactorDisableRequiresEnabled(t *testing.T) {
	account := memberAccount("member password 5")
	svc, _, _, _ := newTwoFactorFixture(account)

	if err := svc.Disable(context.Background(), account, "member password 5"); !errors.Is(err, ErrTwoFactorNotEnabled) {
		t.Fatalf("expected ErrTwoFactorNotEnabled, got %v", err)
	}
}
