package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/config"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.Config != nil {
		if err := writeDefaultConfig(ctx.Config); err != nil {
			return err
		}
	}

	// If force flag is provided, delete existing database
	if c.Force {
		if !ctx.IsSQLite() {
			return errors.New("--force is only supported for SQLite storage")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Background()); err != nil {
		return err
	}
	fmt.Printf("Initialized focusflow storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

// writeDefaultConfig creates the config file when it is missing. Defaults are
// written rather than cfg itself so environment overrides stay out of the file.
func writeDefaultConfig(cfg *config.Config) error {
	if _, err := os.Stat(cfg.Path()); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to access config file: %w", err)
	}

	defaults := config.Default(cfg.Dir)
	if err := defaults.Save(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Printf("Wrote default config to: %s\n", defaults.Path())
	return nil
}
