package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/store-mgmt/store-api/internal/platform/httpx"
)

// Messages returned by the REST authentication middleware.
const (
	MsgNoToken      = "Access Denied. No token provided."
	MsgTokenExpired = "Access Token was expired!"
	MsgUnauthorized = "Unauthorized!"
)

// RequireAuth validates Authorization: Bearer <token> and stores the
// resolved Identity in the request context.
func RequireAuth(authn *Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				switch {
				case errors.Is(err, ErrMissingCredential):
					httpx.Error(w, http.StatusForbidden, MsgNoToken, "")
				case errors.Is(err, ErrExpiredCredential):
					logger.Warn("access token expired", slog.Any("error", err))
					httpx.Error(w, http.StatusUnauthorized, MsgTokenExpired, "")
				default:
					logger.Warn("unauthorized", slog.Any("error", err))
					httpx.Error(w, http.StatusUnauthorized, MsgUnauthorized, "")
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}
