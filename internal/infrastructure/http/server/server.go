// Package server assembles the HTTP API server
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cuizine/api/internal/infrastructure/config"
	"github.com/cuizine/api/internal/infrastructure/http/handlers"
	"github.com/cuizine/api/internal/infrastructure/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server wraps the HTTP server with its dependencies
type Server struct {
	config *config.Config
	logger *zap.Logger
	engine *gin.Engine
	http   *http.Server

	db    *gorm.DB
	cache *redis.Client
}

// Handlers groups the API handlers mounted on the server
type Handlers struct {
	Generator     *handlers.GeneratorHandler
	Recipes       *handlers.RecipeHandler
	MealPlans     *handlers.MealPlanHandler
	ShoppingLists *handlers.ShoppingListHandler
	Preferences   *handlers.PreferencesHandler
}

// New creates a fully routed HTTP server
func New(cfg *config.Config, logger *zap.Logger, db *gorm.DB, cache *redis.Client, h Handlers) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	s := &Server{
		config: cfg,
		logger: logger.Named("http"),
		engine: engine,
		db:     db,
		cache:  cache,
	}

	m := middleware.New(cfg, s.logger)
	engine.Use(
		m.RequestID(),
		m.Logger(),
		m.Recovery(),
		m.Security(),
		m.CORS(),
		m.RateLimit(),
	)

	engine.GET(cfg.Monitoring.HealthCheckPath, s.health)
	if cfg.Monitoring.EnableMetrics {
		engine.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := engine.Group("/api/v1")
	api.Use(m.Authenticate())
	{
		h.Generator.RegisterRoutes(api.Group("/generator"))
		h.Recipes.RegisterRoutes(api.Group("/recipes"))
		h.MealPlans.RegisterRoutes(api.Group("/meal-plans"))
		h.ShoppingLists.RegisterRoutes(api.Group("/shopping-lists"))
		h.Preferences.RegisterRoutes(api.Group("/preferences"))
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Start begins serving requests. It blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.http.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.http.Shutdown(ctx)
}

// health reports liveness of the server and its dependencies
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
	}

	if err := s.cache.Ping(ctx).Err(); err != nil {
		// Counter store being down degrades quota checks but the API
		// stays up (admission fails open)
		checks["cache"] = "degraded"
	} else {
		checks["cache"] = "up"
	}

	c.JSON(status, gin.H{
		"status":  http.StatusText(status),
		"version": s.config.App.Version,
		"checks":  checks,
	})
}
