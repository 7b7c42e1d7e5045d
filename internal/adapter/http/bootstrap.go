package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

type Server struct {
	srv       *http.Server
	container *Container
}

func NewServer(cfg *config.AppConfig, container *Container, metrics *telemetry.AppMetrics, logger *config.LokiLogger) *Server {
	router := SetupRouter(RouterConfig{
		AuthHandler:    container.AuthHandler,
		AccountHandler: container.AccountHandler,
		AdminHandler:   container.AdminHandler,
		Validator:      container.Issuer,
		Denylist:       container.AuthService,
		Metrics:        metrics,
		Logger:         logger,
		Config:         cfg,
	})

	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		container: container,
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start(cfg *config.AppConfig) error {
	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database", cfg.Database.Driver,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS,
		"google_login", cfg.Google.ClientID != "")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
