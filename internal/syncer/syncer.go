// Package syncer keeps the signed-in user's focus sessions, energy samples and
// today's reflection in memory and writes changes through to the store.
//
// Every write is followed by a re-fetch of the affected collection, so the
// in-memory copy converges on what the store holds. Store failures are logged
// and recorded in the snapshot rather than returned; only input errors are
// returned to the caller. Each fetch remembers the identity epoch it was
// issued under, and results that arrive after the user changed are dropped.
package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/focusflow/internal/clock"
	"github.com/julianstephens/focusflow/internal/constants"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/identity"
	"github.com/julianstephens/focusflow/internal/logger"
	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/storage"
	"github.com/julianstephens/focusflow/internal/utils"
	"github.com/julianstephens/focusflow/internal/validation"
)

// Snapshot is a copy of the synchronized state. It shares no memory with the Syncer.
type Snapshot struct {
	UserID        string
	Sessions      []models.FocusSession
	EnergySamples []models.EnergySample
	Energy        models.Energy
	Reflection    *models.DailyReflection
	Loading       bool
	// LastFailure is the store failure of the most recent operation, if any.
	LastFailure error
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock sets the time source used for timestamps and today's date.
func WithClock(c clock.Clock) Option {
	return func(s *Syncer) { s.clock = c }
}

// WithTimezone sets the IANA timezone that decides which date is today.
func WithTimezone(tz string) Option {
	return func(s *Syncer) { s.timezone = tz }
}

// Syncer owns the client copy of one user's records. It is safe for concurrent use.
type Syncer struct {
	store    storage.Provider
	clock    clock.Clock
	timezone string

	mu            sync.Mutex
	userID        string
	epoch         uint64
	sessions      []models.FocusSession
	energySamples []models.EnergySample
	energy        models.Energy
	reflection    *models.DailyReflection
	inflight      int
	lastFailure   error

	bg sync.WaitGroup
}

// New returns a Syncer with nobody signed in.
func New(store storage.Provider, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		clock:    clock.Real{},
		timezone: constants.DefaultTimezone,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// resetLocked empties every collection. The caller must hold mu.
func (s *Syncer) resetLocked() {
	s.sessions = []models.FocusSession{}
	s.energySamples = []models.EnergySample{}
	s.energy = models.Energy{Value: constants.DefaultEnergy}
	s.reflection = nil
	s.lastFailure = nil
}

// Watch applies p's current identity, loading that user's records, and then
// follows p: a new user is loaded in the background, sign-out clears the
// state. The returned function stops following p.
func (s *Syncer) Watch(ctx context.Context, p identity.Provider) (stop func()) {
	if userID, ok := p.Current(); ok {
		s.SetUser(userID)
		s.LoadAll(ctx)
	} else {
		s.SetUser("")
	}

	return p.Subscribe(func(userID string) {
		if !s.SetUser(userID) || userID == "" {
			return
		}
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			s.LoadAll(ctx)
		}()
	})
}

// Wait blocks until loads started by Watch have finished.
func (s *Syncer) Wait() {
	s.bg.Wait()
}

// SetUser switches the current user. Switching to a different user, or to
// nobody, clears all state and invalidates fetches still in flight. It
// reports whether the user changed.
func (s *Syncer) SetUser(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == userID {
		return false
	}
	s.userID = userID
	s.epoch++
	s.resetLocked()
	logger.Debug("Identity changed", "user", userID)
	return true
}

// scope is the identity a fetch or write was issued under.
type scope struct {
	userID string
	epoch  uint64
}

// begin captures the current scope and marks an operation in flight. It
// returns ErrNoIdentity when nobody is signed in.
func (s *Syncer) begin() (scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return scope{}, apperrors.ErrNoIdentity
	}
	s.inflight++
	s.lastFailure = nil
	return scope{userID: s.userID, epoch: s.epoch}, nil
}

func (s *Syncer) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// apply runs fn under the lock if sc is still the current scope.
func (s *Syncer) apply(sc scope, what string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.epoch != s.epoch {
		logger.Debug("Discarding stale result", "what", what, "user", sc.userID)
		return
	}
	fn()
}

// fail logs a store error and records it as the last failure if sc is still current.
func (s *Syncer) fail(sc scope, op string, err error) {
	logger.Error("Store operation failed", "op", op, "user", sc.userID, "error", err)
	s.apply(sc, op, func() {
		s.lastFailure = apperrors.Remote(op, err)
	})
}

// LoadAll fetches all three collections concurrently. A collection whose
// fetch fails keeps its previous value. With nobody signed in it does nothing.
func (s *Syncer) LoadAll(ctx context.Context) {
	sc, err := s.begin()
	if err != nil {
		return
	}
	defer s.end()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.fetchSessions(ctx, sc)
	}()
	go func() {
		defer wg.Done()
		s.fetchEnergy(ctx, sc)
	}()
	go func() {
		defer wg.Done()
		s.fetchReflection(ctx, sc)
	}()
	wg.Wait()
}

// Refresh reloads every collection for the current user.
func (s *Syncer) Refresh(ctx context.Context) {
	s.LoadAll(ctx)
}

func (s *Syncer) fetchSessions(ctx context.Context, sc scope) {
	sessions, err := s.store.ListFocusSessions(ctx, sc.userID)
	if err != nil {
		s.fail(sc, "load focus sessions", err)
		return
	}
	if sessions == nil {
		sessions = []models.FocusSession{}
	}
	s.apply(sc, "focus sessions", func() {
		s.sessions = sessions
	})
}

func (s *Syncer) fetchEnergy(ctx context.Context, sc scope) {
	samples, err := s.store.ListEnergySamples(ctx, sc.userID, constants.RecentEnergyLimit)
	if err != nil {
		s.fail(sc, "load energy samples", err)
		return
	}
	if samples == nil {
		samples = []models.EnergySample{}
	}
	s.apply(sc, "energy samples", func() {
		s.energySamples = samples
		s.energy = models.Energy{Value: constants.DefaultEnergy}
		if len(samples) > 0 {
			s.energy.Value = samples[0].Value
		}
	})
}

func (s *Syncer) fetchReflection(ctx context.Context, sc scope) {
	date, err := s.today()
	if err != nil {
		logger.Error("Cannot determine today's date", "timezone", s.timezone, "error", err)
		s.apply(sc, "daily reflection", func() { s.lastFailure = err })
		return
	}
	reflection, err := s.store.GetDailyReflection(ctx, sc.userID, date)
	if err != nil {
		s.fail(sc, "load daily reflection", err)
		return
	}
	s.apply(sc, "daily reflection", func() {
		s.reflection = reflection
	})
}

func (s *Syncer) today() (string, error) {
	return utils.DateInTimezone(s.clock.Now(), s.timezone)
}

// UpsertFocusSession creates a session when patch has no id and otherwise
// updates the fields patch carries. Input errors are returned before anything
// is written. The sessions are re-fetched whether or not the write succeeded.
func (s *Syncer) UpsertFocusSession(ctx context.Context, patch models.FocusSessionPatch) error {
	patch, err := validation.FocusSessionPatch(patch)
	if err != nil {
		return err
	}

	sc, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	now := s.clock.Now()
	patch = patch.Normalize(now)

	if patch.IsCreate() {
		session := patch.Apply(models.FocusSession{UpdatedAt: now})
		var id string
		id, err = s.store.AddFocusSession(ctx, sc.userID, session)
		if err == nil {
			logger.Info("Created focus session", "user", sc.userID, "id", id)
		}
	} else {
		err = s.store.UpdateFocusSession(ctx, sc.userID, patch, now)
	}
	if err != nil {
		s.fail(sc, "save focus session", err)
	}

	s.fetchSessions(ctx, sc)
	return nil
}

// ToggleFocusSessionCompletion flips the completed flag of a cached session.
// It returns ErrNotFound when id is not among the loaded sessions.
func (s *Syncer) ToggleFocusSessionCompletion(ctx context.Context, id string) error {
	session, ok := s.Session(id)
	if !ok {
		logger.Warn("Cannot toggle unknown focus session", "id", id)
		return fmt.Errorf("%w: focus session %s", apperrors.ErrNotFound, id)
	}

	completed := !session.Completed
	return s.UpsertFocusSession(ctx, models.FocusSessionPatch{
		ID:        id,
		Completed: &completed,
	})
}

// AddEnergySample records an energy reading. After a successful insert the
// current energy shows value as pending until the re-fetch confirms it.
func (s *Syncer) AddEnergySample(ctx context.Context, value int, notes string) error {
	if err := validation.Energy(value); err != nil {
		return err
	}

	sc, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	_, err = s.store.AddEnergySample(ctx, sc.userID, models.EnergySample{Value: value, Notes: notes})
	if err != nil {
		s.fail(sc, "save energy sample", err)
	} else {
		s.apply(sc, "energy", func() {
			s.energy = models.Energy{Value: value, Pending: true}
		})
	}

	s.fetchEnergy(ctx, sc)
	return nil
}

// SaveDailyReflection merges patch into today's reflection, creating it if
// needed. Fields left nil keep their stored value.
func (s *Syncer) SaveDailyReflection(ctx context.Context, patch models.ReflectionPatch) error {
	patch, err := validation.ReflectionPatch(patch)
	if err != nil {
		return err
	}

	date, err := s.today()
	if err != nil {
		return err
	}

	sc, err := s.begin()
	if err != nil {
		return err
	}
	defer s.end()

	if err := s.store.UpsertDailyReflection(ctx, sc.userID, date, patch, s.clock.Now()); err != nil {
		s.fail(sc, "save daily reflection", err)
	}

	s.fetchReflection(ctx, sc)
	return nil
}

// Session returns a copy of the cached session with the given id.
func (s *Syncer) Session(id string) (models.FocusSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.ID == id {
			return session.Clone(), true
		}
	}
	return models.FocusSession{}, false
}

// Snapshot returns a deep copy of the current state.
func (s *Syncer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]models.FocusSession, len(s.sessions))
	for i, session := range s.sessions {
		sessions[i] = session.Clone()
	}
	samples := make([]models.EnergySample, len(s.energySamples))
	copy(samples, s.energySamples)

	return Snapshot{
		UserID:        s.userID,
		Sessions:      sessions,
		EnergySamples: samples,
		Energy:        s.energy,
		Reflection:    s.reflection.Clone(),
		Loading:       s.inflight > 0,
		LastFailure:   s.lastFailure,
	}
}
