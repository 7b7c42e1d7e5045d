package http

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"todoapp/internal/core/service"
	"todoapp/pkg/config"
	. "todoapp/pkg/test"
	"todoapp/pkg/test/factory"
)

func TestStartHousekeeping_PurgesOnStart(t *testing.T) {
	RegisterTestingT(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := InitTestDB()
	store := NewTestStoreOn(db)
	defer store.Close()

	user, err := store.DomainUsers().Create(ctx, "Jane")
	Expect(err).ToNot(HaveOccurred())

	accountID, err := store.Credentials().CreateAccount(ctx, "purge@example.com", factory.DefaultPassword, user.ID)
	Expect(err).ToNot(HaveOccurred())

	now := time.Now().UTC()
	stale := factory.NewRefreshToken(accountID)
	stale.Created = now.Add(-10 * 24 * time.Hour)
	stale.Expires = now.Add(-3 * 24 * time.Hour)
	active := factory.NewRefreshToken(accountID)

	Expect(store.RefreshTokens().Create(ctx, &stale)).To(Succeed())
	Expect(store.RefreshTokens().Create(ctx, &active)).To(Succeed())

	container := &Container{Store: store, Refresh: service.NewRefreshTokenLifecycle(store.RefreshTokens(), nil)}
	container.StartHousekeeping(ctx)

	Eventually(func() int { return CountRows(t, db, "refresh_tokens") }, 2*time.Second, 20*time.Millisecond).Should(Equal(1))
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	RegisterTestingT(t)

	_, err := OpenDatabase(context.Background(), config.DatabaseConfig{Driver: "oracle"})

	Expect(err).To(MatchError(ContainSubstring("unsupported database driver")))
}
