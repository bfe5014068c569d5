package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/store-mgmt/store-api/internal/auth"
	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/graph"
	"github.com/store-mgmt/store-api/internal/observability"
	"github.com/store-mgmt/store-api/internal/platform/httpx"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Authenticator      *auth.Authenticator
	AuthHandler        *auth.Handler
	CategoriesHandler  *categories.Handler
	PermissionsHandler *rbac.PermissionsHandler
	GraphHandler       *graph.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults. REST resources
// under /api/v1 other than /auth sit behind bearer authentication; /graph
// authenticates per request and authorizes per field.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(params.Authenticator, params.Logger))
			if params.CategoriesHandler != nil {
				r.Route("/categories", params.CategoriesHandler.MountRoutes)
			}
			if params.PermissionsHandler != nil {
				r.Route("/roles", params.PermissionsHandler.MountRoutes)
			}
		})
	})

	if params.GraphHandler != nil {
		r.Route("/graph", params.GraphHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Not Found", r.URL.Path)
	})
	return r
}
