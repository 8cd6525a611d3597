package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalogo-api/internal/config"
	"catalogo-api/internal/database"
	custommiddleware "catalogo-api/internal/middleware"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"
	"catalogo-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers behind the middleware stack.
// redisClient may be nil, which disables rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, pool *pgxpool.Pool, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	if cfg.Metrics.Enabled {
		metrics := custommiddleware.NewMetrics()
		router.Use(metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	router.Get("/health", healthHandler(func(ctx context.Context) (map[string]string, error) {
		return database.Health(ctx, pool)
	}, logger))

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(pool)
	subcategoryRepo := repository.NewSubcategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	// Initialize services
	tx := database.NewTransactor(pool)
	categoryHandler := transport.NewCategoryHandler(
		service.NewCategoryQueryService(categoryRepo),
		service.NewCategoryMaintenanceService(categoryRepo, tx, logger),
		logger,
	)
	subcategoryHandler := transport.NewSubcategoryHandler(
		service.NewSubcategoryQueryService(subcategoryRepo),
		service.NewSubcategoryMaintenanceService(subcategoryRepo, categoryRepo, tx, logger),
		logger,
	)
	productHandler := transport.NewProductHandler(
		service.NewProductQueryService(productRepo, subcategoryRepo, categoryRepo),
		service.NewProductMaintenanceService(productRepo, subcategoryRepo, tx, logger),
		logger,
	)

	// Register routes
	router.Group(func(r chi.Router) {
		if redisClient != nil {
			limiter := custommiddleware.NewRateLimiter(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "catalogo:ratelimit",
			}, logger)
			r.Use(limiter.Middleware())
		}

		if cfg.Auth.JWTSecret != "" {
			r.Use(custommiddleware.RequireAdminForWrites(cfg.Auth.JWTSecret, logger))
		} else {
			logger.Warn("AUTH_JWT_SECRET is empty, write endpoints are unauthenticated")
		}

		categoryHandler.RegisterRoutes(r)
		subcategoryHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
	}
}

// healthHandler reports 200 with pool statistics, or 503 when the database is unreachable
func healthHandler(check func(ctx context.Context) (map[string]string, error), logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := check(r.Context())
		if err != nil {
			logger.Error("Health check failed", zap.Error(err))
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "unavailable",
				"database": stats,
			})
			return
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"database": stats,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.pool != nil {
		s.pool.Close()
	}

	_ = s.logger.Sync()
	return nil
}
