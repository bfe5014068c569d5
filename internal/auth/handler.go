package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/store-mgmt/store-api/internal/platform/httpx"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authn     *Authenticator
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. Registration only accepts roles
// named in roles.
func NewHandler(logger *slog.Logger, service *Service, authn *Authenticator, roles *rbac.Table) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if roles == nil {
		roles = rbac.DefaultTable()
	}
	v, err := newValidator(roles)
	if err != nil {
		panic(err)
	}
	return &Handler{logger: logger, service: service, authn: authn, validator: v}
}

// newValidator returns a validator whose "role" tag accepts names in roles.
func newValidator(roles *rbac.Table) (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return roles.Known(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("auth: register role validation: %w", err)
	}
	return v, nil
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
	r.With(RequireAuth(h.authn, h.logger)).Get("/profile", h.handleProfile)
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}
	user, err := h.service.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		h.logger.Warn("register failed", slog.String("username", req.Username), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}
	h.logger.Info("user registered", slog.String("user_id", user.ID), slog.String("role", user.Role))
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Login failed", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Authentication failed", "")
		return
	}
	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Authentication failed", "")
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Error(w, http.StatusUnauthorized, "Login failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		httpx.Error(w, http.StatusBadRequest, "Access Denied. No refresh token provided.", "")
		return
	}
	token, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Warn("refresh rejected", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, "Invalid refresh token.", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Error(w, http.StatusUnauthorized, MsgUnauthorized, "")
		return
	}
	user, err := h.service.Profile(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User requested was not found", "")
			return
		}
		httpx.Error(w, http.StatusUnauthorized, "Get profile failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, Identity{ID: user.ID, Username: user.Username, Role: user.Role})
}
