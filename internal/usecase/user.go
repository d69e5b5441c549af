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
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// UserInput carries admin-supplied account fields. Nil Active leaves the
// current flag untouched on update and defaults to inactive on create.
type UserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.AccountRole
	Active    *bool
	Birthdate *time.Time
	Phone     *string
}

// UserService exposes account administration. All mutating operations are
// admin-only; members can only read their own profile through GetSelf.
type UserService struct {
	accounts port.AccountRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(accounts port.AccountRepository, log *zap.Logger) *UserService {
	return &UserService{accounts: accounts, log: log, now: time.Now}
}

// WithClock overrides the internal clock, used in tests.
func (s *UserService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// List returns all accounts without password hashes.
func (s *UserService) List(ctx context.Context, actor domain.Account) ([]domain.Account, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range accounts {
		accounts[i].PasswordHash = ""
	}

	return accounts, nil
}

// Get returns one account. Members may only fetch themselves.
func (s *UserService) Get(ctx context.Context, actor domain.Account, id string) (*domain.Account, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, ErrForbidden
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// Create adds an account directly, already active, with a known password.
func (s *UserService) Create(ctx context.Context, actor domain.Account, input UserInput) (*domain.Account, error) {
	if err := Authorize(actor, ResourceUser, ActionCreate, actor.ID); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("%w: email, first name, and last name are required", ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := false
	if input.Active != nil {
		active = *input.Active
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CGUAccepted:  true,
		Birthdate:    input.Birthdate,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	account.PasswordHash = ""
	return &account, nil
}

// Update rewrites profile fields. Demoting the last administrator is refused.
func (s *UserService) Update(ctx context.Context, actor domain.Account, id string, input UserInput) (*domain.Account, error) {
	if err := Authorize(actor, ResourceUser, ActionUpdate, actor.ID); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != "" && !input.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", input.Role)
	}

	demotion := account.Role == domain.RoleAdmin && input.Role == domain.RoleMember
	deactivation := account.Role == domain.RoleAdmin && account.Active && input.Active != nil && !*input.Active
	if demotion || deactivation {
		admins, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if input.Email != "" {
		account.Email = domain.NormalizeEmail(input.Email)
	}
	if input.FirstName != "" {
		account.FirstName = input.FirstName
	}
	if input.LastName != "" {
		account.LastName = input.LastName
	}
	if input.Role != "" {
		account.Role = input.Role
	}
	if input.Active != nil {
		account.Active = *input.Active
	}
	if input.Birthdate != nil {
		account.Birthdate = input.Birthdate
	}
	if input.Phone != nil {
		account.Phone = input.Phone
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, err
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// Delete removes an account. Self-deletion and removing the last
// administrator are both refused.
func (s *UserService) Delete(ctx context.Context, actor domain.Account, id string) error {
	if err := Authorize(actor, ResourceUser, ActionDelete, actor.ID); err != nil {
		return err
	}

	if actor.ID == id {
		return ErrSelfDelete
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Role == domain.RoleAdmin {
		admins, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("account deleted",
		zap.String("account_id", id),
		zap.String("deleted_by", actor.ID),
	)

	return nil
}
