package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 600 * time.Second
	DefaultRefreshTTL = 24 * time.Hour
)

// Claims is the signed payload of access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager constructs a TokenManager. Non-positive TTLs fall back to
// the defaults.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL reports the access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL reports the refresh token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccess signs an access token for subject.
func (m *TokenManager) IssueAccess(subject string) (string, error) {
	return m.Sign(subject, TokenAccess, m.accessTTL)
}

// IssueRefresh signs a refresh token for subject.
func (m *TokenManager) IssueRefresh(subject string) (string, error) {
	return m.Sign(subject, TokenRefresh, m.refreshTTL)
}

// Sign creates a token of the given type expiring after ttl.
func (m *TokenManager) Sign(subject, tokenType string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("auth: sign: empty subject")
	}
	now := m.now()
	claims := Claims{
		UserID: subject,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and token type. It returns
// ErrExpiredCredential only for otherwise well-signed tokens whose expiry has
// passed, and ErrInvalidCredential for every other failure.
func (m *TokenManager) Verify(raw, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpiredCredential, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidCredential, tokenType)
	}
	return claims, nil
}
