package auth

import (
	"context"

	"github.com/store-mgmt/store-api/internal/rbac"
)

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the identity from context, nil if absent.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityContextKey{}).(*Identity)
	return identity
}

// PrincipalFromContext adapts IdentityFromContext for rbac.Middleware.
func PrincipalFromContext(ctx context.Context) rbac.Principal {
	return IdentityFromContext(ctx)
}
