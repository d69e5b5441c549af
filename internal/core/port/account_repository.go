package port

import (
	"context"
	"time"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// AccountRepository exposes persistence behavior for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
	SetTwoFactor(ctx context.Context, id string, enabled bool) error
	SetStripeCustomerID(ctx context.Context, id string, customerID string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role domain.AccountRole) (int, error)
	Count(ctx context.Context) (int, error)
}
