package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/constants"
	"github.com/julianstephens/focusflow/internal/identity"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/utils"
)

// Lister returns the uncompleted sessions a user scheduled for hhmm.
type Lister interface {
	ListScheduledFocusSessions(ctx context.Context, userID, hhmm string) ([]models.FocusSession, error)
}

// Sender delivers reminders for due sessions.
type Sender interface {
	Remind(ctx context.Context, sessions []models.FocusSession)
}

// Checker periodically looks for focus sessions scheduled for the current
// minute and sends a reminder for each.
type Checker struct {
	store    Lister
	identity identity.Provider
	sender   Sender
	clock    clock.Clock
	timezone string
	spec     string
	cron     *cron.Cron

	mu      sync.Mutex
	lastRun string
}

type Option func(*Checker)

func WithClock(c clock.Clock) Option {
	return func(r *Checker) { r.clock = c }
}

func WithTimezone(tz string) Option {
	return func(r *Checker) { r.timezone = tz }
}

// WithSpec overrides the cron schedule the checker runs on.
func WithSpec(spec string) Option {
	return func(r *Checker) { r.spec = spec }
}

func New(store Lister, p identity.Provider, sender Sender, opts ...Option) *Checker {
	r := &Checker{
		store:    store,
		identity: p,
		sender:   sender,
		clock:    clock.Real{},
		timezone: constants.DefaultTimezone,
		spec:     constants.ReminderSpec,
		cron:     cron.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start schedules the check and starts the cron runner.
func (r *Checker) Start() error {
	logger.Info("Starting reminder checker", "schedule", r.spec, "timezone", r.timezone)

	_, err := r.cron.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.Check(ctx); err != nil {
			logger.Error("Reminder check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()
	return nil
}

// Stop stops the runner and waits for a running check to finish.
func (r *Checker) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	logger.Info("Reminder checker stopped")
}

// Check sends reminders for the sessions due this minute and returns how many
// were due. A minute is only checked once.
func (r *Checker) Check(ctx context.Context) (int, error) {
	userID, ok := r.identity.Current()
	if !ok {
		logger.Debug("Skipping reminder check, nobody is signed in")
		return 0, nil
	}

	now := r.clock.Now()
	hhmm, err := utils.ClockInTimezone(now, r.timezone)
	if err != nil {
		return 0, err
	}
	date, err := utils.DateInTimezone(now, r.timezone)
	if err != nil {
		return 0, err
	}

	key := userID + "/" + date + "T" + hhmm
	r.mu.Lock()
	if r.lastRun == key {
		r.mu.Unlock()
		return 0, nil
	}
	r.lastRun = key
	r.mu.Unlock()

	sessions, err := r.store.ListScheduledFocusSessions(ctx, userID, hhmm)
	if err != nil {
		return 0, fmt.Errorf("failed to list scheduled sessions: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	logger.Info("Sending reminders", "user", userID, "time", hhmm, "count", len(sessions))
	r.sender.Remind(ctx, sessions)
	return len(sessions), nil
}
