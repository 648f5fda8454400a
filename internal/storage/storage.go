// Package storage defines the boundary to the durable record store.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/focusflow/internal/models"
)

// ErrNotFound is returned when an update targets a record that does not
// exist for the given user.
var ErrNotFound = errors.New("record not found")

// Provider is a user-scoped record store. Every read and write is restricted
// to the rows owned by the given user id.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Focus sessions
	// ListFocusSessions returns the user's sessions, most recently created first.
	ListFocusSessions(ctx context.Context, userID string) ([]models.FocusSession, error)
	// ListScheduledFocusSessions returns the user's uncompleted sessions scheduled at hhmm.
	ListScheduledFocusSessions(ctx context.Context, userID, hhmm string) ([]models.FocusSession, error)
	// AddFocusSession inserts a session and returns its new id.
	AddFocusSession(ctx context.Context, userID string, session models.FocusSession) (string, error)
	// UpdateFocusSession writes the non-nil fields of patch and stamps updatedAt.
	UpdateFocusSession(ctx context.Context, userID string, patch models.FocusSessionPatch, updatedAt time.Time) error

	// Energy samples
	// ListEnergySamples returns at most limit samples, most recent first.
	ListEnergySamples(ctx context.Context, userID string, limit int) ([]models.EnergySample, error)
	AddEnergySample(ctx context.Context, userID string, sample models.EnergySample) (string, error)

	// Daily reflections
	// GetDailyReflection returns nil and no error when the user has no
	// reflection for date.
	GetDailyReflection(ctx context.Context, userID, date string) (*models.DailyReflection, error)
	// UpsertDailyReflection creates the reflection for (user, date) or merges
	// the non-nil fields of patch into the existing one.
	UpsertDailyReflection(ctx context.Context, userID, date string, patch models.ReflectionPatch, now time.Time) error

	// Utils
	GetConfigPath() string
}

// IsPostgresDSN reports whether dsn names a PostgreSQL database rather than a
// SQLite file path.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
