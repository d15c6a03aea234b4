// Package main is the entry point for the Aurum reports API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aurum/internal/config"
	"aurum/internal/domain/reporting"
	"aurum/internal/domain/stockdash"
	v1 "aurum/internal/infrastructure/http/v1"
	"aurum/internal/infrastructure/storage/postgres"
	"aurum/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting aurum server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN)
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// Periodic pool stats for operational visibility
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			postgres.LogPoolStats(ctx, pool.Unwrap())
		}
	}()

	// --- Report engine ---
	registry, err := reporting.DefaultRegistry()
	if err != nil {
		log.Fatalw("failed to build report registry", "error", err)
	}

	executor := postgres.NewExecutor(pool)
	svcCfg := reporting.ServiceConfig{
		DefaultPageSize: cfg.Reporting.DefaultPageSize,
		MaxPageSize:     cfg.Reporting.MaxPageSize,
	}
	reportService := reporting.NewService(registry, executor, svcCfg)

	stockCompiler := stockdash.Compiler{DefaultBranchID: cfg.Reporting.DefaultBranchID}
	stockService := stockdash.NewService(stockCompiler, executor, svcCfg)

	log.Infow("report engine initialized",
		"report_types", registry.Len(),
		"default_branch_id", cfg.Reporting.DefaultBranchID,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		ReportService: reportService,
		StockService:  stockService,
		Environment:   cfg.Server.Environment,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
