// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"github.com/cuizine/api/internal/application/generator"
	"github.com/cuizine/api/internal/application/mealplan"
	"github.com/cuizine/api/internal/application/quota"
	"github.com/cuizine/api/internal/application/recipe"
	"github.com/cuizine/api/internal/application/shoppinglist"
	"github.com/cuizine/api/internal/application/user"
	"github.com/cuizine/api/internal/infrastructure/ai/openai"
	"github.com/cuizine/api/internal/infrastructure/cache"
	"github.com/cuizine/api/internal/infrastructure/config"
	"github.com/cuizine/api/internal/infrastructure/http/handlers"
	"github.com/cuizine/api/internal/infrastructure/http/server"
	"github.com/cuizine/api/internal/infrastructure/identity"
	"github.com/cuizine/api/internal/infrastructure/monitoring"
	gormRepo "github.com/cuizine/api/internal/infrastructure/persistence/gorm"
	"github.com/cuizine/api/internal/infrastructure/persistence/postgres"
	"github.com/cuizine/api/internal/ports/inbound"
	"github.com/cuizine/api/internal/ports/outbound"
	"github.com/cuizine/api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the PostgreSQL connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		return postgres.Connect(cfg, log)
	},
)

// CacheModule provides the Redis client and the counter ledger
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
		return cache.NewRedisClient(&cfg.Redis, log)
	},
	func(client *redis.Client, log *zap.Logger) outbound.Ledger {
		return cache.NewRedisLedger(client, log)
	},
)

// RepositoryModule provides persistence adapters
var RepositoryModule = fx.Provide(
	func(db *gorm.DB, log *zap.Logger) outbound.RecipeRepository {
		return gormRepo.NewRecipeRepository(db, log)
	},
	func(db *gorm.DB, log *zap.Logger) outbound.MealPlanRepository {
		return gormRepo.NewMealPlanRepository(db, log)
	},
	func(db *gorm.DB, log *zap.Logger) outbound.ShoppingListRepository {
		return gormRepo.NewShoppingListRepository(db, log)
	},
	func(db *gorm.DB, log *zap.Logger) outbound.PreferencesRepository {
		return gormRepo.NewPreferencesRepository(db, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.AIClient {
		return openai.NewClient(&cfg.AI, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.IdentityProvider {
		return identity.NewProvider(&cfg.Identity, log)
	},
	func(ledger outbound.Ledger, log *zap.Logger) *quota.Gate {
		return quota.NewGate(ledger, log)
	},
	func(
		gate *quota.Gate,
		recipes outbound.RecipeRepository,
		preferences outbound.PreferencesRepository,
		ai outbound.AIClient,
		identities outbound.IdentityProvider,
		log *zap.Logger,
	) inbound.GeneratorService {
		return generator.NewService(gate, recipes, preferences, ai, identities, log)
	},
	func(recipes outbound.RecipeRepository, log *zap.Logger) inbound.RecipeService {
		return recipe.NewService(recipes, log)
	},
	func(plans outbound.MealPlanRepository, recipes outbound.RecipeRepository, log *zap.Logger) inbound.MealPlanService {
		return mealplan.NewService(plans, recipes, log)
	},
	func(lists outbound.ShoppingListRepository, recipes outbound.RecipeRepository, log *zap.Logger) inbound.ShoppingListService {
		return shoppinglist.NewService(lists, recipes, log)
	},
	func(preferences outbound.PreferencesRepository, log *zap.Logger) inbound.PreferencesService {
		return user.NewPreferencesService(preferences, log)
	},
)

// HTTPModule provides the API handlers and server
var HTTPModule = fx.Provide(
	monitoring.NewMetrics,
	handlers.NewGeneratorHandler,
	handlers.NewRecipeHandler,
	handlers.NewMealPlanHandler,
	handlers.NewShoppingListHandler,
	handlers.NewPreferencesHandler,
	func(
		cfg *config.Config,
		log *zap.Logger,
		db *gorm.DB,
		cacheClient *redis.Client,
		generatorHandler *handlers.GeneratorHandler,
		recipeHandler *handlers.RecipeHandler,
		mealPlanHandler *handlers.MealPlanHandler,
		shoppingListHandler *handlers.ShoppingListHandler,
		preferencesHandler *handlers.PreferencesHandler,
	) *server.Server {
		return server.New(cfg, log, db, cacheClient, server.Handlers{
			Generator:     generatorHandler,
			Recipes:       recipeHandler,
			MealPlans:     mealPlanHandler,
			ShoppingLists: shoppingListHandler,
			Preferences:   preferencesHandler,
		})
	},
)

// LifecycleModule wires server start/stop into the fx lifecycle
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, db *gorm.DB, cacheClient *redis.Client, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Fatal("HTTP server failed", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				if err := srv.Stop(ctx); err != nil {
					log.Warn("Server shutdown incomplete", zap.Error(err))
				}
				if err := cacheClient.Close(); err != nil {
					log.Warn("Closing cache client failed", zap.Error(err))
				}
				if sqlDB, err := db.DB(); err == nil {
					if err := sqlDB.Close(); err != nil {
						log.Warn("Closing database failed", zap.Error(err))
					}
				}
				return nil
			},
		})
	},
)
