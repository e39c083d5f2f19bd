package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"facilityaudit/docs" // swagger docs

	"facilityaudit/internal/app"
	"facilityaudit/internal/cache"
	"facilityaudit/internal/config"
	"facilityaudit/internal/db"
	"facilityaudit/internal/logger"
)

// @title Facility Audit API
// @version 1.0
// @description Facility inspection checklists with a conduct and approval workflow, dashboards and report exports.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger.Init(&logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		Output:     os.Stdout,
		JSON:       cfg.LogJSON,
		TimeFormat: time.RFC3339,
	})
	log := logger.GetDefault()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(ctx, db.Options{
		Driver:  cfg.DBDriver,
		DSN:     cfg.DatabaseDSN,
		Retries: cfg.DBConnectRetries,
		Log:     log,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB, log)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	application, err := app.New(cfg, gormDB, cacheClient, log)
	if err != nil {
		log.Error("app init failed", "error", err)
		os.Exit(1)
	}

	log.Info("swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	errCh := make(chan error, 1)
	go func() { errCh <- application.Start(":" + cfg.ServerPort) }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}
}
