// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/application/conflict"
	"github.com/smartmeal/core/internal/application/fulfillment"
	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/application/planner"
	"github.com/smartmeal/core/internal/application/recommendation"
	"github.com/smartmeal/core/internal/application/shopping"
	"github.com/smartmeal/core/internal/application/waste"
	"github.com/smartmeal/core/internal/infrastructure/catalog/mongo"
	"github.com/smartmeal/core/internal/infrastructure/config"
	"github.com/smartmeal/core/internal/infrastructure/graph"
	"github.com/smartmeal/core/internal/infrastructure/graph/neo4j"
	"github.com/smartmeal/core/internal/infrastructure/http/server"
	gormrepo "github.com/smartmeal/core/internal/infrastructure/persistence/gorm"
	"github.com/smartmeal/core/internal/infrastructure/persistence/postgres"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/healthcheck"
	"github.com/smartmeal/core/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CatalogModule,
	GraphModule,
	RepositoryModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
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
			Development: !cfg.IsProduction(),
		})
	},
)

// DatabaseModule provides the relational database connection
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*postgres.ConnectionManager, error) {
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return cm.Close()
			},
		})
		return cm, nil
	},
	func(cm *postgres.ConnectionManager) *gorm.DB {
		return cm.GetDB()
	},
)

// CatalogModule provides the recipe catalog. The catalog is a hard
// dependency; startup fails when it is unreachable.
var CatalogModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.RecipeCatalog, error) {
		catalog, err := mongo.NewRecipeCatalog(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return catalog.Close(ctx)
			},
		})
		return catalog, nil
	},
)

// GraphModule provides the ingredient relationship store. When the
// store is unreachable at startup the fail-closed stand-in takes its
// place, so allergy checks and ingredient validation reject instead of
// guessing.
var GraphModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) outbound.IngredientGraph {
		g, err := neo4j.NewIngredientGraph(context.Background(), cfg, log)
		if err != nil {
			log.Warn("Ingredient graph unreachable, failing closed", zap.Error(err))
			return graph.NewUnavailableGraph()
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return g.Close(ctx)
			},
		})
		return g
	},
)

// RepositoryModule provides the persistence adapters
var RepositoryModule = fx.Provide(
	gormrepo.NewPantryRepository,
	gormrepo.NewMealPlanRepository,
	gormrepo.NewCookingLogRepository,
	gormrepo.NewWasteLogRepository,
	gormrepo.NewShoppingListRepository,
	gormrepo.NewUserRepository,
	gormrepo.NewTransactionManager,
)

// ServiceModule provides the application services
var ServiceModule = fx.Provide(
	pantry.NewLedger,
	conflict.NewResolver,
	func(r *conflict.Resolver) planner.ConflictResolver { return r },
	func(cfg *config.Config) planner.Config {
		pc := planner.Config{
			Topics:           cfg.Planner.Topics,
			PerTopicLimit:    cfg.Planner.PerTopicLimit,
			DiversityWindow:  cfg.Planner.DiversityWindow,
			DefaultServings:  cfg.Planner.DefaultServings,
			MaxSubsPerRecipe: cfg.Planner.MaxSubsPerRecipe,
		}
		if len(pc.Topics) == 0 {
			return planner.DefaultConfig()
		}
		return pc
	},
	pantry.NewPantryService,
	planner.NewPlannerService,
	fulfillment.NewFulfillmentService,
	recommendation.NewRecommendationService,
	shopping.NewShoppingService,
	waste.NewWasteService,
)

// pinger is implemented by adapters that can probe their backing store
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthModule provides the health check registry. Adapters that
// cannot be probed (like the fail-closed graph stand-in) are simply
// not registered.
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, cm *postgres.ConnectionManager, catalog outbound.RecipeCatalog, ig outbound.IngredientGraph) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log.Named("healthcheck"))
		hc.Register("database", healthcheck.PingChecker("database", cm.HealthCheck))
		if p, ok := catalog.(pinger); ok {
			hc.Register("recipe-catalog", healthcheck.PingChecker("recipe-catalog", p.Ping))
		}
		if p, ok := ig.(pinger); ok {
			hc.Register("ingredient-graph", healthcheck.PingChecker("ingredient-graph", p.Ping))
		}
		return hc
	},
)

// HTTPModule provides the HTTP server and ties it to the app lifecycle
var HTTPModule = fx.Options(
	fx.Provide(server.NewServer),
	fx.Invoke(func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("HTTP server stopped with error", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
