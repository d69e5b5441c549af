package port

import (
	"context"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// CotisationRepository exposes persistence behavior for membership fee records.
type CotisationRepository interface {
	Create(ctx context.Context, cotisation domain.Cotisation) error
	GetByID(ctx context.Context, id string) (*domain.Cotisation, error)
	List(ctx context.Context) ([]domain.Cotisation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Cotisation, error)
	Update(ctx context.Context, cotisation domain.Cotisation) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository exposes persistence behavior for payment records.
//
// Payments are append-and-update only; there is no delete.
type PaymentRepository interface {
	// CreateIfAbsent inserts the payment unless a row with the same
	// StripeID already exists. It reports whether a row was created.
	CreateIfAbsent(ctx context.Context, payment domain.Payment) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByStripeID(ctx context.Context, stripeID string) (*domain.Payment, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	SetReceiptPath(ctx context.Context, id string, path string) error
	HasSucceededMembershipPayment(ctx context.Context, userID string) (bool, error)
	SumSucceeded(ctx context.Context) (float64, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
