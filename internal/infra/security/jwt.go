package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

var (
	// ErrInvalidToken indicates the token is malformed or signature validation failed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("token expired")
	// ErrWrongTokenUse indicates an access token was presented where a refresh token was expected, or vice versa.
	ErrWrongTokenUse = errors.New("wrong token use")
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// Claims augments registered claims with account context.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
	Use    string `json:"use"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses HS256-signed access and refresh tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager constructs a TokenManager with the shared signing secret.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssueAccessToken signs a short-lived access token for the account.
func (m *TokenManager) IssueAccessToken(account domain.Account) (string, error) {
	return m.issue(account, tokenUseAccess, m.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the account.
func (m *TokenManager) IssueRefreshToken(account domain.Account) (string, error) {
	return m.issue(account, tokenUseRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(account domain.Account, use string, ttl time.Duration) (string, error) {
	if account.ID == "" {
		return "", fmt.Errorf("account id is required")
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID: account.ID,
		Role:   string(account.Role),
		Use:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (m *TokenManager) ParseAccessToken(token string) (*Claims, error) {
	return m.parse(token, tokenUseAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (m *TokenManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(token, tokenUseRefresh)
}

func (m *TokenManager) parse(token, expectedUse string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	if claims.Use != expectedUse {
		return nil, ErrWrongTokenUse
	}

	return claims, nil
}
