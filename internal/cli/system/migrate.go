package system

import (
	"fmt"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/migration"
	"github.com/julianstephens/focusflow/internal/storage"
	"github.com/julianstephens/focusflow/internal/storage/postgres"
	"github.com/julianstephens/focusflow/internal/storage/sqlite"
	"github.com/julianstephens/focusflow/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := runnerFor(ctx.Store)
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(ctx.Background(), func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

// runnerFor returns a migration runner over the open connection of store.
func runnerFor(store storage.Provider) (*migration.Runner, error) {
	switch s := store.(type) {
	case *sqlite.Store:
		db := s.GetDB()
		if db == nil {
			return nil, fmt.Errorf("database connection is nil")
		}
		return migration.NewRunner(db, migrations.SQLite(), migration.DriverSQLite)
	case *postgres.Store:
		if s.Queries == nil {
			return nil, fmt.Errorf("database connection is nil")
		}
		return migration.NewRunner(s.DB(), migrations.Postgres(), migration.DriverPostgres)
	default:
		return nil, fmt.Errorf("migrations are not supported for %T", store)
	}
}
