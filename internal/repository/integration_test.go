//go:build integration

package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "eventhub_test_db"),
	)

	var err error
	testDB, err = database.NewPostgresDB(dsn)
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	code := m.Run()

	testDB.Exec("DROP TABLE IF EXISTS bookings")
	testDB.Exec("DROP TABLE IF EXISTS events")

	os.Exit(code)
}

func cleanTables() {
	testDB.Exec("DELETE FROM bookings")
	testDB.Exec("DELETE FROM events")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestGormEventRepo_CRUD(t *testing.T) {
	cleanTables()
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	require.NoError(t, repo.Create(ctx, sampleEvent("e1")))
	assert.ErrorIs(t, repo.Create(ctx, sampleEvent("e1")), ErrDuplicate)

	got, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "outdoor"}, got.Tags)

	got.Price = 10
	got.Featured = false
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Price)
	assert.False(t, got.Featured)
	assert.Equal(t, "Riverside Park", got.Venue)

	assert.ErrorIs(t, repo.Update(ctx, sampleEvent("missing")), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "e1"))
	assert.ErrorIs(t, repo.Delete(ctx, "e1"), ErrNotFound)
}

func TestGormEventRepo_Upsert(t *testing.T) {
	cleanTables()
	ctx := context.Background()
	repo := NewEventRepository(testDB)

	ev := sampleEvent("e1")
	require.NoError(t, repo.Upsert(ctx, ev))
	ev.Name = "Renamed"
	require.NoError(t, repo.Upsert(ctx, ev))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestGormBookingRepo_UniquePerUserAndEvent(t *testing.T) {
	cleanTables()
	ctx := context.Background()
	events := NewEventRepository(testDB)
	bookings := NewBookingRepository(testDB)

	require.NoError(t, events.Create(ctx, sampleEvent("e1")))

	now := time.Now()
	require.NoError(t, bookings.Create(ctx, &models.Booking{ID: "b1", EventID: "e1", UserID: "u1", BookingDate: now}))
	err := bookings.Create(ctx, &models.Booking{ID: "b2", EventID: "e1", UserID: "u1", BookingDate: now})
	assert.ErrorIs(t, err, ErrDuplicate)

	n, err := bookings.CountByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mine, err := bookings.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b1", mine[0].ID)
}
