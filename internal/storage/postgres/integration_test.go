package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/julianstephens/focusflow/internal/storage"
	"github.com/julianstephens/focusflow/internal/storage/storetest"
)

// TestStore_Integration runs the store conformance suite against a real database.
// Set FOCUSFLOW_TEST_POSTGRES to run it, for example
// FOCUSFLOW_TEST_POSTGRES="postgres://focus@localhost:5432/focus_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("FOCUSFLOW_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("FOCUSFLOW_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	storetest.Run(t, func(t *testing.T) storage.Provider {
		ctx := context.Background()
		store := New(connStr)
		if err := store.Init(ctx); err != nil {
			t.Fatalf("Failed to initialize store: %v", err)
		}
		for _, table := range []string{"focus_sessions", "energy_levels", "daily_reflections"} {
			if _, err := store.DB().ExecContext(ctx, "TRUNCATE "+table); err != nil {
				t.Fatalf("Failed to truncate %s: %v", table, err)
			}
		}
		return store
	})
}
