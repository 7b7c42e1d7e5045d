package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"todoapp/internal/adapter/database"
	"todoapp/internal/adapter/database/repository"
	"todoapp/internal/adapter/database/sqlite"
	tel "todoapp/internal/core/telemetry"
)

// FindProjectRoot walks up from this file until it finds go.mod.
func FindProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens a private in-memory sqlite database with every migration
// applied and the default roles seeded.
func InitTestDB() *database.DB {
	migrationsPath := filepath.Join(FindProjectRoot(), "db", "migrations", "sqlite")

	db, err := sqlite.NewMemoryDB(migrationsPath)

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// NewTestStore returns a store over a fresh database using the cheapest
// bcrypt cost.
func NewTestStore() *repository.Store {
	return NewTestStoreOn(InitTestDB())
}

func NewTestStoreOn(db *database.DB) *repository.Store {
	return repository.NewStore(db, tel.NewNoOpTelemetry(), repository.WithHashCost(bcrypt.MinCost))
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	var count int

	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}

	return count
}

// CleanDB empties every table except the migration bookkeeping and the
// seeded roles.
func CleanDB(t *testing.T, db *database.DB) {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations', 'roles')")
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, strings.TrimSpace(table))
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}
	rows.Close()

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", table, err)
		}
	}
}
