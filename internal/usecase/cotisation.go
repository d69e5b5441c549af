package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

// CotisationInput carries membership fee fields from handlers.
type CotisationInput struct {
	Type   string
	Amount float64
	UserID string
}

// MembershipStatus reports whether a member's dues are settled.
type MembershipStatus struct {
	UserID string
	Active bool
}

// CotisationService manages membership fee records. Writes are admin-only:
// a cotisation states what a member owes, and members do not set their own
// dues. Membership itself is derived from succeeded renewal payments, never
// from a mutable flag.
type CotisationService struct {
	cotisations port.CotisationRepository
	payments    port.PaymentRepository
	accounts    port.AccountRepository
	now         func() time.Time
}

// NewCotisationService constructs a CotisationService instance.
func NewCotisationService(
	cotisations port.CotisationRepository,
	payments port.PaymentRepository,
	accounts port.AccountRepository,
) *CotisationService {
	return &CotisationService{
		cotisations: cotisations,
		payments:    payments,
		accounts:    accounts,
		now:         time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *CotisationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// List returns all cotisations for admins, or the caller's own otherwise.
func (s *CotisationService) List(ctx context.Context, actor domain.Account) ([]domain.Cotisation, error) {
	if actor.IsAdmin() {
		return s.cotisations.List(ctx)
	}
	return s.cotisations.ListByUser(ctx, actor.ID)
}

// Get returns one cotisation; members may only see their own.
func (s *CotisationService) Get(ctx context.Context, actor domain.Account, id string) (*domain.Cotisation, error) {
	cotisation, err := s.cotisations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && cotisation.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return cotisation, nil
}

// Create records a new membership fee.
func (s *CotisationService) Create(ctx context.Context, actor domain.Account, input CotisationInput) (*domain.Cotisation, error) {
	if err := Authorize(actor, ResourceCotisation, ActionCreate, actor.ID); err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(input.Type) == "":
		return nil, fmt.Errorf("%w: type is required", ErrValidation)
	case input.Amount <= 0:
		return nil, ErrInvalidAmount
	case strings.TrimSpace(input.UserID) == "":
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	if _, err := s.accounts.GetByID(ctx, input.UserID); err != nil {
		return nil, fmt.Errorf("lookup member: %w", err)
	}

	cotisation := domain.Cotisation{
		ID:        uuid.NewString(),
		Type:      input.Type,
		Amount:    input.Amount,
		UserID:    input.UserID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.cotisations.Create(ctx, cotisation); err != nil {
		return nil, err
	}

	return &cotisation, nil
}

// Update rewrites a membership fee record.
func (s *CotisationService) Update(ctx context.Context, actor domain.Account, id string, input CotisationInput) (*domain.Cotisation, error) {
	if err := Authorize(actor, ResourceCotisation, ActionUpdate, actor.ID); err != nil {
		return nil, err
	}

	cotisation, err := s.cotisations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Type != "" {
		cotisation.Type = input.Type
	}
	if input.Amount > 0 {
		cotisation.Amount = input.Amount
	}
	if input.UserID != "" {
		if _, err := s.accounts.GetByID(ctx, input.UserID); err != nil {
			return nil, fmt.Errorf("lookup member: %w", err)
		}
		cotisation.UserID = input.UserID
	}

	if err := s.cotisations.Update(ctx, *cotisation); err != nil {
		return nil, err
	}

	return cotisation, nil
}

// Delete removes a membership fee record.
func (s *CotisationService) Delete(ctx context.Context, actor domain.Account, id string) error {
	if err := Authorize(actor, ResourceCotisation, ActionDelete, actor.ID); err != nil {
		return err
	}

	if _, err := s.cotisations.GetByID(ctx, id); err != nil {
		return err
	}

	return s.cotisations.Delete(ctx, id)
}

// Status derives membership standing. A member is in good standing when at
// least one succeeded renewal payment references one of their cotisations;
// no stored flag can contradict the payment trail.
func (s *CotisationService) Status(ctx context.Context, actor domain.Account, userID string) (*MembershipStatus, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, ErrForbidden
	}

	active, err := s.payments.HasSucceededMembershipPayment(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership payments: %w", err)
	}

	return &MembershipStatus{UserID: userID, Active: active}, nil
}
