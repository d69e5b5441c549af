package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

const (
	defaultCodePrefix = "code"

	fieldCode      = "code"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
	fieldAttempts  = "attempts"
)

// PendingCodeRepository persists one-time codes in Redis, keyed by purpose
// and email so codes for different flows never collide.
type PendingCodeRepository struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewPendingCodeRepository constructs a code store with the provided Redis client and key prefix.
func NewPendingCodeRepository(client *red.Client, keyPrefix string) *PendingCodeRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultCodePrefix
	}

	return &PendingCodeRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Store persists a code with the supplied purpose/email and TTL.
func (r *PendingCodeRepository) Store(ctx context.Context, purpose domain.CodePurpose, email, code string, ttl time.Duration) (*domain.PendingCode, error) {
	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)

	switch {
	case purpose == "":
		return nil, errors.New("purpose is required")
	case email == "":
		return nil, errors.New("email is required")
	case code == "":
		return nil, errors.New("code is required")
	case ttl <= 0:
		return nil, errors.New("ttl must be positive")
	}

	now := r.now().UTC()
	expiresAt := now.Add(ttl)
	key := r.key(purpose, email)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		fieldCode:      code,
		fieldCreatedAt: strconv.FormatInt(now.Unix(), 10),
		fieldExpiresAt: strconv.FormatInt(expiresAt.Unix(), 10),
		fieldAttempts:  "0",
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis store code: %w", err)
	}

	return &domain.PendingCode{
		Purpose:   purpose,
		Email:     email,
		Code:      code,
		Attempts:  0,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Get retrieves the pending code for the provided purpose and email.
func (r *PendingCodeRepository) Get(ctx context.Context, purpose domain.CodePurpose, email string) (*domain.PendingCode, error) {
	email = domain.NormalizeEmail(email)
	if purpose == "" || email == "" {
		return nil, errors.New("purpose and email are required")
	}

	values, err := r.client.HGetAll(ctx, r.key(purpose, email)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall code: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	code := strings.TrimSpace(values[fieldCode])
	if code == "" {
		return nil, repository.ErrNotFound
	}

	issuedAt, err := parseUnix(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	attempts := 0
	if raw := values[fieldAttempts]; raw != "" {
		if v, convErr := strconv.Atoi(raw); convErr == nil {
			attempts = v
		}
	}

	return &domain.PendingCode{
		Purpose:   purpose,
		Email:     email,
		Code:      code,
		Attempts:  attempts,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// IncrementAttempts increments the attempt counter and returns the new value.
func (r *PendingCodeRepository) IncrementAttempts(ctx context.Context, purpose domain.CodePurpose, email string) (int, error) {
	if _, err := r.Get(ctx, purpose, email); err != nil {
		return 0, err
	}

	count, err := r.client.HIncrBy(ctx, r.key(purpose, domain.NormalizeEmail(email)), fieldAttempts, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hincrby code attempts: %w", err)
	}

	return int(count), nil
}

// Delete removes the code entry, enforcing single-use semantics.
func (r *PendingCodeRepository) Delete(ctx context.Context, purpose domain.CodePurpose, email string) error {
	email = domain.NormalizeEmail(email)
	if purpose == "" || email == "" {
		return errors.New("purpose and email are required")
	}

	deleted, err := r.client.Del(ctx, r.key(purpose, email)).Result()
	if err != nil {
		return fmt.Errorf("redis delete code: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (r *PendingCodeRepository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

func (r *PendingCodeRepository) key(purpose domain.CodePurpose, email string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, purpose, email)
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

var _ port.CodeStore = (*PendingCodeRepository)(nil)
