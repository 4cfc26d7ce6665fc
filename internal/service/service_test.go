package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/pkg/db"
	pkg_hash "github.com/Skotchmaster/restaurant/pkg/hash"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(context.Background(), gdb))
	return &repo.GormRepo{DB: gdb}
}

func seedUser(t *testing.T, r *repo.GormRepo, login, password string) {
	t.Helper()
	hash, err := pkg_hash.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), &models.User{
		Login:          login,
		PasswordHash:   hash,
		Passport:       "1234567890",
		LastName:       "Doe",
		FirstName:      "John",
		BankCardNumber: "4111111111111111",
		Role:           "user",
	}))
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
