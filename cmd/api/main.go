package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "todoapp/internal/adapter/http"
	tel "todoapp/internal/adapter/telemetry"
	"todoapp/pkg/config"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLokiLogger(cfg.Telemetry.ServiceName, cfg.Telemetry.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize Loki logger:", err)
	}

	defer logger.Sync()

	telemetry, err := tel.NewContainer(ctx, cfg.Telemetry, cfg.Environment, slog.Default())

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	telemetry.AppMetrics.StartSystemMetrics(ctx)

	db, err := api.OpenDatabase(ctx, cfg.Database)

	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	cache, err := api.OpenCache(ctx, cfg.RedisURL)

	if err != nil {
		log.Fatal("Failed to connect cache:", err)
	}

	container, err := api.NewContainer(ctx, cfg, db, cache, telemetry.NewServiceTelemetry(slog.Default()))

	if err != nil {
		log.Fatal("Failed to build container:", err)
	}

	container.StartHousekeeping(ctx)

	server := api.NewServer(cfg, container, telemetry.AppMetrics, logger)

	go func() {
		if err := server.Start(cfg); err != nil {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown", "error", err)
	}

	if err := container.Close(); err != nil {
		slog.Error("Container close", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown", "error", err)
	}
}
