package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/store-mgmt/store-api/internal/platform/httpx"
)

// PermissionsHandler exposes the role table read-only.
type PermissionsHandler struct {
	table *Table
	rbac  Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(table *Table, rbac Middleware) *PermissionsHandler {
	if table == nil {
		table = DefaultTable()
	}
	return &PermissionsHandler{table: table, rbac: rbac}
}

// MountRoutes registers role listing routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(PermReadRecord))
		r.Get("/", h.listRoles)
	})
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": h.table.Roles()})
}
