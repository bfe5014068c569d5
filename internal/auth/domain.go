package auth

import (
	"errors"

	"github.com/store-mgmt/store-api/internal/rbac"
)

// Credential failures produced by the Authenticator.
var (
	ErrMissingCredential = errors.New("auth: missing credential")
	ErrExpiredCredential = errors.New("auth: credential expired")
	ErrInvalidCredential = errors.New("auth: invalid credential")
	ErrSubjectNotFound   = errors.New("auth: subject not found")
)

// Account flow failures.
var (
	ErrInvalidCredentials  = errors.New("auth: invalid username or password")
	ErrInvalidRefreshToken = errors.New("auth: invalid refresh token")
)

// Token types carried in the typ claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Identity is the caller resolved for a single request. Username and Role
// are empty when the subject vanished after the token was issued.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// RoleName implements rbac.Principal. A nil identity is anonymous.
func (i *Identity) RoleName() string {
	if i == nil {
		return rbac.RoleAnonymous
	}
	return i.Role
}

var _ rbac.Principal = (*Identity)(nil)
