package categories

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/store-mgmt/store-api/internal/platform/httpx"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
)

// Handler exposes categories over REST.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler wires the REST handler. rbac gates each route by permission.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers category routes, each gated by its permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.PermReadRecord)).Get("/", h.List)
	r.With(h.rbac.Require(rbac.PermReadRecord)).Get("/{id}", h.Show)
	r.With(h.rbac.Require(rbac.PermCreateRecord)).Post("/", h.Create)
	r.With(h.rbac.Require(rbac.PermUpdateRecord)).Put("/{id}", h.Update)
	r.With(h.rbac.Require(rbac.PermDeleteRecord)).Delete("/{id}", h.Delete)
}

type createRequest struct {
	Name string `json:"name" validate:"required"`
	Note string `json:"note"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, err := intParam(query.Get("offset"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: offset: %v", shared.ErrValidation, err), "")
		return
	}
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: limit: %v", shared.ErrValidation, err), "")
		return
	}
	page, err := h.service.List(r.Context(), ListQuery{Search: query.Get("search"), Offset: offset, Limit: limit})
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		httpx.RespondError(w, err, "Failed to load categories")
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("get category failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err, "Failed to load category")
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err), "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err), "")
		return
	}
	created, err := h.service.Create(r.Context(), req.Name, req.Note)
	if err != nil {
		h.logger.Error("create category failed", slog.Any("error", err))
		httpx.RespondError(w, err, "Failed to create category")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err), "")
		return
	}
	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("update category failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err, "Failed to update category")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete category failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
