package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"result-hub/internal/database"
	"result-hub/internal/infrastructure/config"
	"result-hub/internal/infrastructure/di"
	"result-hub/internal/logger"
	"result-hub/internal/migration"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var appLog *logger.Logger
	if cfg.Database.PersistLogs {
		appLog = logger.InitLogger(db.GetDB(), cfg.Application.ServiceID)
	} else {
		appLog = logger.InitLogger(nil, cfg.Application.ServiceID)
	}

	container, err := di.New(cfg, db, appLog, nil)
	if err != nil {
		appLog.LogError("Failed to build container", err, nil)
		os.Exit(1)
	}

	if err := migration.SeedDefaults(context.Background(), container.Roles, container.Policy, appLog); err != nil {
		appLog.LogError("Failed to seed defaults", err, nil)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      container.Server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info(logger.EventSystemStart, "Server starting", map[string]interface{}{
			"addr":    httpServer.Addr,
			"version": cfg.Application.Version,
			"redact":  cfg.Errors.RedactUnclassified,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.LogError("Server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for an interrupt to shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info(logger.EventSystemStop, "Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		appLog.LogError("Server forced to shutdown", err, nil)
	}

	appLog.Info(logger.EventSystemStop, "Server exited", nil)
}
