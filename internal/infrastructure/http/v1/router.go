// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"aurum/internal/domain/reporting"
	"aurum/internal/domain/stockdash"
	"aurum/internal/infrastructure/http/v1/handlers"
	"aurum/internal/infrastructure/http/v1/middleware"
	"aurum/internal/infrastructure/storage/postgres"
	"aurum/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// ReportService generates reports
	ReportService *reporting.Service

	// StockService assembles the stock dashboard
	StockService *stockdash.Service

	// Environment selects gin mode ("production" enables release mode)
	Environment string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")
	{
		reportsHandler := handlers.NewReportsHandler(base, cfg.ReportService)
		reportsHandler.RegisterRoutes(v1.Group("/reports"))

		stockHandler := handlers.NewStockHandler(base, cfg.StockService)
		stockHandler.RegisterRoutes(v1.Group("/stock"))
	}

	return router
}
