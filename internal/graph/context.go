package graph

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/store-mgmt/store-api/internal/auth"
	"github.com/store-mgmt/store-api/internal/categories"
)

// RequestContext is built once per HTTP request and shared by every
// resolver of that request. It is never reused across requests.
type RequestContext struct {
	// Token is the raw Authorization header value.
	Token string
	// Identity is nil when the caller is anonymous.
	Identity *auth.Identity
	// Err records why authentication failed, if it did.
	Err    error
	Loader *CategoryLoader
}

type requestContextKey struct{}

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the request context, or an anonymous one when absent.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{}
}

// ContextBuilder authenticates the request and attaches a RequestContext.
// Authentication failures do not reject the request; the caller proceeds
// as anonymous and field-level checks decide.
func ContextBuilder(authn *auth.Authenticator, svc *categories.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			rc := &RequestContext{Token: header, Loader: NewCategoryLoader(svc)}
			identity, err := authn.Authenticate(r.Context(), header)
			if err != nil {
				rc.Err = err
				if header != "" {
					logger.Debug("graph request unauthenticated", slog.Any("error", err))
				}
			} else {
				rc.Identity = identity
			}
			ctx := WithRequestContext(r.Context(), rc)
			ctx = auth.ContextWithIdentity(ctx, rc.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loader returns the request's loader, creating one when the context was
// built outside ContextBuilder.
func (rc *RequestContext) loader(svc *categories.Service) *CategoryLoader {
	if rc.Loader == nil {
		rc.Loader = NewCategoryLoader(svc)
	}
	return rc.Loader
}
