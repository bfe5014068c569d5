package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/store-mgmt/store-api/internal/users"
)

const bearerPrefix = "bearer "

// Authenticator turns a bearer credential into an Identity. Every call does
// a fresh subject lookup; nothing is cached across requests.
type Authenticator struct {
	tokens *TokenManager
	store  users.Store
	strict bool
}

// NewAuthenticator wires an Authenticator. With strict set, a verified token
// whose subject no longer exists fails with ErrSubjectNotFound instead of
// resolving to an identity without username and role.
func NewAuthenticator(tokens *TokenManager, store users.Store, strict bool) *Authenticator {
	return &Authenticator{tokens: tokens, store: store, strict: strict}
}

// Authenticate resolves the raw Authorization header value.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Identity, error) {
	raw := StripBearer(header)
	if raw == "" {
		return nil, ErrMissingCredential
	}
	claims, err := a.tokens.Verify(raw, TokenAccess)
	if err != nil {
		return nil, err
	}
	user, err := a.store.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth: lookup subject: %w", err)
	}
	if user == nil {
		if a.strict {
			return nil, ErrSubjectNotFound
		}
		return &Identity{ID: claims.UserID}, nil
	}
	return &Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// StripBearer removes a leading case-insensitive "Bearer " marker. Values
// without the marker are returned trimmed as-is.
func StripBearer(header string) string {
	v := strings.TrimSpace(header)
	if strings.EqualFold(v, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if len(v) >= len(bearerPrefix) && strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		v = v[len(bearerPrefix):]
	}
	return strings.TrimSpace(v)
}
