// Package server provides the HTTP server wiring the API handlers
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/infrastructure/config"
	"github.com/smartmeal/core/internal/infrastructure/http/handlers"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/pkg/healthcheck"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	pantryService inbound.PantryService,
	fulfillmentService inbound.FulfillmentService,
	plannerService inbound.PlannerService,
	recommendationService inbound.RecommendationService,
	shoppingService inbound.ShoppingService,
	wasteService inbound.WasteService,
	health *healthcheck.HealthCheck,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	api := handlers.NewAPIHandler(
		pantryService,
		fulfillmentService,
		plannerService,
		recommendationService,
		shoppingService,
		wasteService,
		logger,
	)
	api.RegisterRoutes(engine)

	engine.GET("/health", health.Handler())
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler())

	return &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		engine: engine,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Start begins serving requests and blocks until the listener stops
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// requestLogger logs each request with latency and status
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		c.Next()
		log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
