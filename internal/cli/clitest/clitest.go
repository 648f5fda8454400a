// Package clitest builds command contexts over a temporary SQLite store.
package clitest

import (
	"context"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/focusflow/internal/cli"
	"github.com/julianstephens/focusflow/internal/config"
	"github.com/julianstephens/focusflow/internal/identity"
	"github.com/julianstephens/focusflow/internal/storage/sqlite"
)

// NewContext returns a context over a fresh, initialized store with the keyring
// mocked. userID is signed in unless it is empty.
func NewContext(t *testing.T, userID string) *cli.Context {
	t.Helper()
	gokeyring.MockInit()

	cfg := config.Default(t.TempDir())
	cfg.Timezone = "UTC"

	store := sqlite.NewStore(cfg.Storage.DSN)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	id := identity.NewKeyring()
	if userID != "" {
		if err := id.SignIn(userID); err != nil {
			t.Fatalf("failed to sign in: %v", err)
		}
	}

	return &cli.Context{
		Ctx:      context.Background(),
		Config:   &cfg,
		Store:    store,
		Identity: id,
	}
}

// Fresh returns a copy of ctx without its cached records, so the next command
// reads the store again.
func Fresh(ctx *cli.Context) *cli.Context {
	return &cli.Context{
		Ctx:      ctx.Ctx,
		Config:   ctx.Config,
		Store:    ctx.Store,
		Identity: ctx.Identity,
		Notifier: ctx.Notifier,
		Clock:    ctx.Clock,
	}
}
