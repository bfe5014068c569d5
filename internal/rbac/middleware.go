package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/store-mgmt/store-api/internal/platform/httpx"
)

// MsgAccessDenied is returned to callers whose role lacks a permission.
const MsgAccessDenied = "Access denied. You don't have permission to access."

// Recorder observes gate decisions, e.g. for metrics.
type Recorder interface {
	RecordDecision(transport string, d Decision)
}

// Middleware wires RBAC authorization helpers for HTTP handlers. It must run
// after the authentication middleware has attached the principal.
type Middleware struct {
	Gate      Gate
	Principal func(context.Context) Principal
	Logger    *slog.Logger
	Recorder  Recorder
}

// Require ensures the current principal holds permission.
func (m Middleware) Require(permission string) func(http.Handler) http.Handler {
	permission = strings.TrimSpace(permission)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if permission == "" {
				next.ServeHTTP(w, r)
				return
			}
			var principal Principal
			if m.Principal != nil {
				principal = m.Principal(r.Context())
			}
			decision := m.Gate.Check(principal, permission)
			if m.Recorder != nil {
				m.Recorder.RecordDecision("rest", decision)
			}
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac denied",
					slog.String("role", decision.Role),
					slog.String("permission", permission),
					slog.String("path", r.URL.Path))
			}
			httpx.Error(w, http.StatusForbidden, MsgAccessDenied, "")
		})
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	sort.Strings(normalized)
	return normalized
}
