package test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"todoapp/internal/adapter/database"
	"todoapp/internal/adapter/database/postgres"
	"todoapp/pkg/config"
)

const startupTimeout = 90 * time.Second

// startContainer runs image for the lifetime of t and returns host:port of
// the exposed port. The test is skipped when no container runtime answers.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()

	if testing.Short() {
		t.Skip("container tests are skipped in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate %s: %v", req.Image, err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}

	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("container port %s: %v", port, err)
	}

	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

// StartPostgres returns the URL of a throwaway postgres server.
func StartPostgres(t *testing.T) string {
	t.Helper()

	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "todoapp",
			"POSTGRES_PASSWORD": "todoapp",
			"POSTGRES_DB":       "todoapp",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
	}, "5432/tcp")

	return fmt.Sprintf("postgres://todoapp:todoapp@%s/todoapp?sslmode=disable", addr)
}

// StartRedis returns the URL of a throwaway redis server.
func StartRedis(t *testing.T) string {
	t.Helper()

	addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(startupTimeout),
	}, "6379/tcp")

	return fmt.Sprintf("redis://%s/0", addr)
}

// InitPostgresTestDB opens a migrated postgres database in a container. It is
// closed when t finishes.
func InitPostgresTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := postgres.NewDB(context.Background(), config.DatabaseConfig{
		Driver:         postgres.Dialect,
		URL:            StartPostgres(t),
		MigrationsPath: filepath.Join(FindProjectRoot(), "db", "migrations", "postgres"),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// ResetPostgres empties every table and drops roles created by tests; the
// seeded roles stay.
func ResetPostgres(t *testing.T, db *database.DB) {
	t.Helper()

	statements := []string{
		"TRUNCATE refresh_tokens, account_claims, account_roles, role_claims, identity_accounts, domain_users",
		"DELETE FROM roles WHERE name NOT IN ('admin', 'profile')",
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			t.Fatalf("reset postgres: %v", err)
		}
	}
}
