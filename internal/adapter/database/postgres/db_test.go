package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"todoapp/internal/adapter/database/postgres"
	"todoapp/pkg/config"
	. "todoapp/pkg/test"
)

func TestNewDB_RequiresURL(t *testing.T) {
	RegisterTestingT(t)

	_, err := postgres.NewDB(context.Background(), config.DatabaseConfig{Driver: postgres.Dialect})

	Expect(err).To(MatchError(postgres.ErrMissingURL))
}

func TestNewDB_MigratesAndSeedsRoles(t *testing.T) {
	RegisterTestingT(t)

	db := InitPostgresTestDB(t)

	Expect(db.Dialect).To(Equal(postgres.Dialect))
	Expect(CountRows(t, db, "roles")).To(Equal(2))
	Expect(CountRows(t, db, "refresh_tokens")).To(Equal(0))
}
