package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/storage"
)

// fakeStore is an in-memory storage.Provider with failure injection. Failing
// operations are keyed by method name; hook runs at the start of every call
// and may block to hold a call in flight.
type fakeStore struct {
	mu          sync.Mutex
	seq         int
	sessions    map[string][]models.FocusSession
	samples     map[string][]models.EnergySample
	reflections map[string]models.DailyReflection
	fail        map[string]error
	calls       map[string]int
	hook        func(method, userID string)
	now         func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:    map[string][]models.FocusSession{},
		samples:     map[string][]models.EnergySample{},
		reflections: map[string]models.DailyReflection{},
		fail:        map[string]error{},
		calls:       map[string]int{},
		now:         time.Now,
	}
}

var _ storage.Provider = (*fakeStore)(nil)

func (f *fakeStore) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, method)
		return
	}
	f.fail[method] = err
}

func (f *fakeStore) setHook(hook func(method, userID string)) {
	f.mu.Lock()
	f.hook = hook
	f.mu.Unlock()
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// enter records the call, runs the hook outside the lock and returns the
// injected failure for method.
func (f *fakeStore) enter(method, userID string) error {
	f.mu.Lock()
	f.calls[method]++
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(method, userID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail[method]
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) Init(context.Context) error { return nil }
func (f *fakeStore) Load(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }
func (f *fakeStore) GetConfigPath() string      { return "memory" }

func (f *fakeStore) ListFocusSessions(_ context.Context, userID string) ([]models.FocusSession, error) {
	if err := f.enter("ListFocusSessions", userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	src := f.sessions[userID]
	out := make([]models.FocusSession, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i].Clone())
	}
	return out, nil
}

func (f *fakeStore) ListScheduledFocusSessions(_ context.Context, userID, hhmm string) ([]models.FocusSession, error) {
	if err := f.enter("ListScheduledFocusSessions", userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.FocusSession{}
	for _, s := range f.sessions[userID] {
		if !s.Completed && s.ScheduledTime == hhmm {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (f *fakeStore) AddFocusSession(_ context.Context, userID string, s models.FocusSession) (string, error) {
	if err := f.enter("AddFocusSession", userID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	s = s.Clone()
	s.ID = f.nextID("session")
	s.UserID = userID
	s.CreatedAt = f.now()
	f.sessions[userID] = append(f.sessions[userID], s)
	return s.ID, nil
}

func (f *fakeStore) UpdateFocusSession(_ context.Context, userID string, p models.FocusSessionPatch, updatedAt time.Time) error {
	if err := f.enter("UpdateFocusSession", userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.sessions[userID] {
		if s.ID == p.ID {
			s = p.Apply(s)
			s.UpdatedAt = updatedAt
			f.sessions[userID][i] = s
			return nil
		}
	}
	return fmt.Errorf("%w: focus session %s", storage.ErrNotFound, p.ID)
}

func (f *fakeStore) ListEnergySamples(_ context.Context, userID string, limit int) ([]models.EnergySample, error) {
	if err := f.enter("ListEnergySamples", userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	src := f.samples[userID]
	out := []models.EnergySample{}
	for i := len(src) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (f *fakeStore) AddEnergySample(_ context.Context, userID string, e models.EnergySample) (string, error) {
	if err := f.enter("AddEnergySample", userID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	e.ID = f.nextID("energy")
	e.UserID = userID
	e.RecordedAt = f.now()
	f.samples[userID] = append(f.samples[userID], e)
	return e.ID, nil
}

func reflectionKey(userID, date string) string {
	return userID + "/" + date
}

func (f *fakeStore) GetDailyReflection(_ context.Context, userID, date string) (*models.DailyReflection, error) {
	if err := f.enter("GetDailyReflection", userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.reflections[reflectionKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) UpsertDailyReflection(_ context.Context, userID, date string, p models.ReflectionPatch, now time.Time) error {
	if err := f.enter("UpsertDailyReflection", userID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := reflectionKey(userID, date)
	r, ok := f.reflections[key]
	if !ok {
		r = models.DailyReflection{ID: f.nextID("reflection"), UserID: userID, Date: date, CreatedAt: now}
	}
	r = p.Apply(r)
	r.UpdatedAt = now
	f.reflections[key] = r
	return nil
}

// reflectionCount returns how many reflections userID has across all dates.
func (f *fakeStore) reflectionCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.reflections {
		if r.UserID == userID {
			n++
		}
	}
	return n
}
