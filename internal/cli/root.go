package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/focusflow/internal/backup"
	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/config"
	"github.com/julianstephens/focusflow/internal/constants"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/identity"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/notifier"
	"github.com/julianstephens/focusflow/internal/storage"
	"github.com/julianstephens/focusflow/internal/syncer"
)

// Context is bound to every command's Run method.
type Context struct {
	Ctx      context.Context
	Config   *config.Config
	Store    storage.Provider
	Identity *identity.Keyring
	Notifier *notifier.Notifier
	Clock    clock.Clock

	syncer *syncer.Syncer
}

// Background returns the context commands run under.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Timezone() string {
	if c.Config == nil {
		return constants.DefaultTimezone
	}
	return c.Config.Timezone
}

func (c *Context) Now() clock.Clock {
	if c.Clock == nil {
		return clock.Real{}
	}
	return c.Clock
}

// Syncer returns a Syncer holding the signed-in user's records. It fails when
// nobody is signed in or the store could not be read.
func (c *Context) Syncer() (*syncer.Syncer, error) {
	if c.syncer != nil {
		return c.syncer, nil
	}

	if c.Identity == nil {
		return nil, apperrors.ErrNoIdentity
	}
	userID, ok := c.Identity.Current()
	if !ok {
		return nil, fmt.Errorf("%w: run 'focusflow auth login <user>' first", apperrors.ErrNoIdentity)
	}

	s := syncer.New(c.Store,
		syncer.WithClock(c.Now()),
		syncer.WithTimezone(c.Timezone()),
	)
	s.SetUser(userID)
	s.LoadAll(c.Background())
	if err := s.Snapshot().LastFailure; err != nil {
		return nil, err
	}

	c.syncer = s
	return s, nil
}

// LastFailure returns the store failure recorded by s's most recent operation.
func LastFailure(s *syncer.Syncer) error {
	return s.Snapshot().LastFailure
}

// IsSQLite reports whether the configured store is a local SQLite file.
func (c *Context) IsSQLite() bool {
	return c.Store != nil && c.Store.GetConfigPath() != "postgresql"
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(c.Background()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindSession resolves ref to a session by full id or by a unique id prefix.
func FindSession(sessions []models.FocusSession, ref string) (models.FocusSession, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.FocusSession{}, fmt.Errorf("%w: session id is required", apperrors.ErrValidation)
	}

	var matches []models.FocusSession
	for _, s := range sessions {
		if s.ID == ref {
			return s, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return models.FocusSession{}, fmt.Errorf("%w: focus session %s", apperrors.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.FocusSession{}, fmt.Errorf("%w: %q matches %d sessions, use a longer id", apperrors.ErrValidation, ref, len(matches))
	}
}

// ShortID returns the prefix of id shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
