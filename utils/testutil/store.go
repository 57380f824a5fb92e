package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"werkstatt-bot/utils/clock"
	"werkstatt-bot/utils/database"
)

// FixedTime is 2024-12-22 09:30 UTC, a Sunday before Christmas.
var FixedTime = time.Date(2024, 12, 22, 9, 30, 0, 0, time.UTC)

// NewStore creates an in-memory store with the schema applied whose clock
// is a Fake set to now. The store is closed when the test completes.
func NewStore(t *testing.T, now time.Time) (*database.Store, *clock.Fake) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)

	clk := clock.NewFake(now)
	store := database.New(db, clk)
	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, clk
}
