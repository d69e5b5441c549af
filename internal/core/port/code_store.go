package port

import (
	"context"
	"time"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// CodeStore persists pending one-time codes, keyed by purpose and email.
//
// Implementations must expire entries after their TTL and keep codes for
// different purposes independent of each other.
type CodeStore interface {
	Store(ctx context.Context, purpose domain.CodePurpose, email, code string, ttl time.Duration) (*domain.PendingCode, error)
	Get(ctx context.Context, purpose domain.CodePurpose, email string) (*domain.PendingCode, error)
	Delete(ctx context.Context, purpose domain.CodePurpose, email string) error
	IncrementAttempts(ctx context.Context, purpose domain.CodePurpose, email string) (int, error)
}
