package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/store-mgmt/store-api/internal/auth"
	"github.com/store-mgmt/store-api/internal/categories"
	"github.com/store-mgmt/store-api/internal/graph"
	"github.com/store-mgmt/store-api/internal/observability"
	"github.com/store-mgmt/store-api/internal/platform/cache"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/users"
	"github.com/store-mgmt/store-api/jobs"
)

// Infra carries connections owned by the caller. Nil Redis selects the
// in-process cache; nil Jobs disables warmup scheduling.
type Infra struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Jobs      categories.WarmupEnqueuer
	Inspector jobs.QueueInspector
}

// Application is the assembled HTTP service.
type Application struct {
	Router     http.Handler
	Users      users.Store
	Categories *categories.Service
	Tokens     *auth.TokenManager
	Metrics    *observability.Metrics
}

// NewUserStore selects the subject store for cfg.StoreDriver.
func NewUserStore(cfg *Config, infra Infra) (users.Store, error) {
	if cfg.StoreDriver == DriverMemory {
		return users.NewMemoryRepository(), nil
	}
	if infra.Pool == nil {
		return nil, errors.New("app: postgres driver selected without a pool")
	}
	return users.NewRepository(infra.Pool), nil
}

// NewCategoriesService selects the category repository and listing cache.
func NewCategoriesService(cfg *Config, logger *slog.Logger, infra Infra) (*categories.Service, error) {
	var repo categories.Repository
	if cfg.StoreDriver == DriverMemory {
		repo = categories.NewMemoryRepository()
	} else {
		if infra.Pool == nil {
			return nil, errors.New("app: postgres driver selected without a pool")
		}
		repo = categories.NewRepository(infra.Pool)
	}
	var listCache cache.Versioned = cache.NewMemory("categories", cfg.CacheTTL)
	if infra.Redis != nil {
		listCache = cache.NewRedis(infra.Redis, "categories", cfg.CacheTTL)
	}
	svc := categories.NewService(repo, listCache, logger)
	if infra.Jobs != nil {
		svc.WithWarmup(infra.Jobs)
	}
	return svc, nil
}

// Build assembles every handler and the router.
func Build(cfg *Config, logger *slog.Logger, infra Infra) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	userStore, err := NewUserStore(cfg, infra)
	if err != nil {
		return nil, err
	}
	categoriesService, err := NewCategoriesService(cfg, logger, infra)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	roles := rbac.DefaultTable()
	gate := rbac.NewGate(roles)
	rbacMiddleware := rbac.Middleware{
		Gate:      gate,
		Principal: auth.PrincipalFromContext,
		Logger:    logger,
		Recorder:  metrics,
	}

	tokens := auth.NewTokenManager(cfg.AuthSecretKey, cfg.AccessTTL(), cfg.RefreshTTL())
	authenticator := auth.NewAuthenticator(tokens, userStore, cfg.AuthStrictSubject)
	authHandler := auth.NewHandler(logger, auth.NewService(userStore, tokens), authenticator, roles)

	schema, err := graph.NewSchema(graph.Config{
		Categories: categoriesService,
		Users:      userStore,
		Gate:       gate,
		Recorder:   metrics,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	router := NewRouter(RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      authenticator,
		AuthHandler:        authHandler,
		CategoriesHandler:  categories.NewHandler(logger, categoriesService, rbacMiddleware),
		PermissionsHandler: rbac.NewPermissionsHandler(roles, rbacMiddleware),
		GraphHandler:       graph.NewHandler(&schema, authenticator, categoriesService, logger),
		JobHandler:         jobs.NewHandler(infra.Inspector, logger),
		Metrics:            metrics,
	})

	return &Application{
		Router:     router,
		Users:      userStore,
		Categories: categoriesService,
		Tokens:     tokens,
		Metrics:    metrics,
	}, nil
}
