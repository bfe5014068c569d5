package graph

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"github.com/store-mgmt/store-api/internal/auth"
	"github.com/store-mgmt/store-api/internal/categories"
)

// Handler serves the GraphQL endpoint.
type Handler struct {
	gql     http.Handler
	context func(http.Handler) http.Handler
}

// NewHandler wraps schema with the per-request context builder.
func NewHandler(schema *graphql.Schema, authn *auth.Authenticator, svc *categories.Service, logger *slog.Logger) *Handler {
	return &Handler{
		gql: handler.New(&handler.Config{
			Schema:   schema,
			Pretty:   true,
			GraphiQL: false,
		}),
		context: ContextBuilder(authn, svc, logger),
	}
}

// MountRoutes accepts GET and POST on the mount point.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.context)
	r.Get("/", h.gql.ServeHTTP)
	r.Post("/", h.gql.ServeHTTP)
}
