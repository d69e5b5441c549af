package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

const defaultDenyPrefix = "denied-jti"

// TokenDenylistRepository records revoked refresh-token identifiers in Redis.
// Entries expire when the token they shadow would have expired anyway.
type TokenDenylistRepository struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewTokenDenylistRepository wires Redis storage for revoked token ids.
func NewTokenDenylistRepository(client *red.Client, keyPrefix string) *TokenDenylistRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultDenyPrefix
	}

	return &TokenDenylistRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Deny marks the jti as revoked until the supplied expiry.
func (r *TokenDenylistRepository) Deny(ctx context.Context, jti string, until time.Time) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return errors.New("jti is required")
	}

	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// Already expired, nothing to shadow.
		return nil
	}

	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set denied jti: %w", err)
	}

	return nil
}

// IsDenied reports whether the jti has been revoked.
func (r *TokenDenylistRepository) IsDenied(ctx context.Context, jti string) (bool, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return false, errors.New("jti is required")
	}

	if err := r.client.Get(ctx, r.key(jti)).Err(); err != nil {
		if errors.Is(err, red.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get denied jti: %w", err)
	}

	return true, nil
}

// WithClock overrides the internal clock, used in tests.
func (r *TokenDenylistRepository) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

func (r *TokenDenylistRepository) key(jti string) string {
	return fmt.Sprintf("%s:%s", r.prefix, jti)
}

var _ port.TokenDenylist = (*TokenDenylistRepository)(nil)
