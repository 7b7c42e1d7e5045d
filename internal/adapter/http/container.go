package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"todoapp/internal/adapter/database"
	"todoapp/internal/adapter/database/memory"
	"todoapp/internal/adapter/database/postgres"
	"todoapp/internal/adapter/database/redis"
	"todoapp/internal/adapter/database/repository"
	"todoapp/internal/adapter/database/sqlite"
	"todoapp/internal/adapter/google"
	"todoapp/internal/adapter/http/handler"
	"todoapp/internal/core/port"
	"todoapp/internal/core/service"
	"todoapp/pkg/config"
)

const purgeInterval = 24 * time.Hour

type Container struct {
	Store    *repository.Store
	Cache    port.CacheRepository
	Issuer   *service.TokenIssuer
	Refresh  *service.RefreshTokenLifecycle
	Denylist port.TokenDenylist

	AuthService    *service.AuthService
	AccountService *service.AccountService

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	AdminHandler   *handler.AdminHandler
}

// OpenDatabase selects the driver named by cfg.Driver.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.NewDB(cfg)
	case "postgres":
		return postgres.NewDB(ctx, cfg)
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// OpenCache returns Redis when a URL is configured and an in-process cache
// otherwise.
func OpenCache(ctx context.Context, redisURL string) (port.CacheRepository, error) {
	if redisURL == "" {
		return memory.NewMemoryRepository(), nil
	}

	return redis.NewRedisRepository(ctx, redisURL)
}

// NewContainer wires stores, services and handlers. Background work started
// here, such as the Google key refresher, stops when ctx is cancelled.
func NewContainer(ctx context.Context, cfg *config.AppConfig, db *database.DB, cache port.CacheRepository, telemetry port.Telemetry) (*Container, error) {
	store := repository.NewStore(db, telemetry)

	issuer, err := service.NewTokenIssuer(cfg.Token, nil)

	if err != nil {
		return nil, err
	}

	refresh := service.NewRefreshTokenLifecycle(store.RefreshTokens(), nil)
	denylist := repository.NewTokenDenylist(cache)

	var verifier port.ExternalIdentityVerifier
	if cfg.Google.ClientID != "" {
		verifier, err = google.NewVerifier(ctx, cfg.Google)

		if err != nil {
			return nil, err
		}
	}

	authSvc := service.NewAuthService(store, issuer, refresh, verifier, denylist, telemetry)
	accountSvc := service.NewAccountService(store, refresh)

	return &Container{
		Store:    store,
		Cache:    cache,
		Issuer:   issuer,
		Refresh:  refresh,
		Denylist: denylist,

		AuthService:    authSvc,
		AccountService: accountSvc,

		AuthHandler:    handler.NewAuthHandler(authSvc),
		AccountHandler: handler.NewAccountHandler(accountSvc),
		AdminHandler:   handler.NewAdminHandler(accountSvc),
	}, nil
}

// StartHousekeeping purges refresh tokens that have been inactive for a day,
// once right away and then daily until ctx is cancelled.
func (c *Container) StartHousekeeping(ctx context.Context) {
	go func() {
		c.purgeRefreshTokens(ctx)

		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.purgeRefreshTokens(ctx)
			}
		}
	}()
}

func (c *Container) purgeRefreshTokens(ctx context.Context) {
	count, err := c.Refresh.PurgeInactive(ctx, c.Refresh.Now().Add(-purgeInterval))

	if err != nil {
		slog.Error("Container#StartHousekeeping", "purge", err)
		return
	}

	slog.Info("Container#StartHousekeeping", "purged_refresh_tokens", count)
}

func (c *Container) Close() error {
	if err := c.Cache.Close(); err != nil {
		slog.Warn("Container#Close", "cache", err)
	}

	return c.Store.Close()
}
