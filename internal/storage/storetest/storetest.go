// Package storetest is a conformance suite run against every storage.Provider
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/focusflow/internal/models"
	"github.com/julianstephens/focusflow/internal/storage"
)

// Factory returns an initialized, empty store. The store is closed by the suite.
type Factory func(t *testing.T) storage.Provider

func ptr[T any](v T) *T { return &v }

// Run exercises every Provider operation against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("FocusSessions", func(t *testing.T) { testFocusSessions(t, newStore) })
	t.Run("FocusSessionUserScope", func(t *testing.T) { testFocusSessionUserScope(t, newStore) })
	t.Run("ScheduledFocusSessions", func(t *testing.T) { testScheduledFocusSessions(t, newStore) })
	t.Run("EnergySamples", func(t *testing.T) { testEnergySamples(t, newStore) })
	t.Run("DailyReflectionMerge", func(t *testing.T) { testDailyReflectionMerge(t, newStore) })
	t.Run("DailyReflectionUserScope", func(t *testing.T) { testDailyReflectionUserScope(t, newStore) })
}

func open(t *testing.T, newStore Factory) storage.Provider {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testFocusSessions(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)

	empty, err := s.ListFocusSessions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFocusSessions() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("ListFocusSessions() on empty store = %#v, want empty non-nil slice", empty)
	}

	firstID, err := s.AddFocusSession(ctx, "alice", models.FocusSession{
		Title: "Draft chapter", DurationMin: 50, Category: models.CategoryWork, ScheduledTime: "09:00",
	})
	if err != nil {
		t.Fatalf("AddFocusSession() error = %v", err)
	}
	secondID, err := s.AddFocusSession(ctx, "alice", models.FocusSession{
		Title: "Stretch", DurationMin: 10, Category: models.CategoryHealth,
	})
	if err != nil {
		t.Fatalf("AddFocusSession() error = %v", err)
	}
	if firstID == "" || firstID == secondID {
		t.Fatalf("store assigned ids %q and %q", firstID, secondID)
	}

	sessions, err := s.ListFocusSessions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListFocusSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != secondID || sessions[1].ID != firstID {
		t.Errorf("sessions not ordered newest first: %s, %s", sessions[0].ID, sessions[1].ID)
	}
	first := sessions[1]
	if first.Title != "Draft chapter" || first.DurationMin != 50 || first.Category != models.CategoryWork ||
		first.ScheduledTime != "09:00" || first.Completed || first.CompletedAt != nil || first.UserID != "alice" {
		t.Errorf("stored session = %+v", first)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Errorf("timestamps not assigned: %+v", first)
	}

	completedAt := time.Date(2026, 5, 1, 10, 15, 0, 123456789, time.UTC)
	updatedAt := completedAt.Add(time.Second)
	err = s.UpdateFocusSession(ctx, "alice", models.FocusSessionPatch{
		ID:            firstID,
		Title:         ptr("Draft chapter two"),
		Completed:     ptr(true),
		CompletedAt:   &completedAt,
		ScheduledTime: ptr(""),
	}, updatedAt)
	if err != nil {
		t.Fatalf("UpdateFocusSession() error = %v", err)
	}

	sessions, _ = s.ListFocusSessions(ctx, "alice")
	got := sessions[1]
	if got.Title != "Draft chapter two" || got.DurationMin != 50 || got.ScheduledTime != "" || !got.Completed {
		t.Errorf("updated session = %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
	}
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, updatedAt)
	}

	err = s.UpdateFocusSession(ctx, "alice", models.FocusSessionPatch{ID: firstID, Completed: ptr(false)}, updatedAt)
	if err != nil {
		t.Fatalf("UpdateFocusSession() error = %v", err)
	}
	sessions, _ = s.ListFocusSessions(ctx, "alice")
	if sessions[1].Completed || sessions[1].CompletedAt != nil {
		t.Errorf("uncompleted session = %+v", sessions[1])
	}

	err = s.UpdateFocusSession(ctx, "alice", models.FocusSessionPatch{ID: "missing", Title: ptr("x")}, updatedAt)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateFocusSession(missing) error = %v, want ErrNotFound", err)
	}
}

func testFocusSessionUserScope(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)

	id, err := s.AddFocusSession(ctx, "alice", models.FocusSession{
		Title: "Private", DurationMin: 25, Category: models.CategoryPersonal,
	})
	if err != nil {
		t.Fatalf("AddFocusSession() error = %v", err)
	}

	bobSessions, err := s.ListFocusSessions(ctx, "bob")
	if err != nil {
		t.Fatalf("ListFocusSessions() error = %v", err)
	}
	if len(bobSessions) != 0 {
		t.Errorf("bob sees %d of alice's sessions", len(bobSessions))
	}

	err = s.UpdateFocusSession(ctx, "bob", models.FocusSessionPatch{ID: id, Title: ptr("Hijacked")}, time.Now())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-user update error = %v, want ErrNotFound", err)
	}

	aliceSessions, _ := s.ListFocusSessions(ctx, "alice")
	if aliceSessions[0].Title != "Private" {
		t.Errorf("cross-user update changed the title to %q", aliceSessions[0].Title)
	}
}

func testScheduledFocusSessions(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)

	add := func(user, title, hhmm string, completed bool) {
		t.Helper()
		session := models.FocusSession{Title: title, DurationMin: 25, Category: models.CategoryStudy, ScheduledTime: hhmm}
		if completed {
			session.Completed = true
			session.CompletedAt = ptr(time.Now())
		}
		if _, err := s.AddFocusSession(ctx, user, session); err != nil {
			t.Fatalf("AddFocusSession() error = %v", err)
		}
	}
	add("alice", "Due now", "14:30", false)
	add("alice", "Already done", "14:30", true)
	add("alice", "Later", "15:00", false)
	add("alice", "Unscheduled", "", false)
	add("bob", "Someone else", "14:30", false)

	due, err := s.ListScheduledFocusSessions(ctx, "alice", "14:30")
	if err != nil {
		t.Fatalf("ListScheduledFocusSessions() error = %v", err)
	}
	if len(due) != 1 || due[0].Title != "Due now" {
		t.Errorf("ListScheduledFocusSessions() = %+v, want only \"Due now\"", due)
	}
}

func testEnergySamples(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)

	for i, v := range []int{40, 55, 70} {
		notes := ""
		if i == 1 {
			notes = "after lunch"
		}
		if _, err := s.AddEnergySample(ctx, "alice", models.EnergySample{Value: v, Notes: notes}); err != nil {
			t.Fatalf("AddEnergySample() error = %v", err)
		}
	}
	if _, err := s.AddEnergySample(ctx, "bob", models.EnergySample{Value: 10}); err != nil {
		t.Fatalf("AddEnergySample() error = %v", err)
	}

	samples, err := s.ListEnergySamples(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListEnergySamples() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].Value != 70 || samples[1].Value != 55 {
		t.Errorf("samples not newest first: %d, %d", samples[0].Value, samples[1].Value)
	}
	if samples[1].Notes != "after lunch" || samples[0].Notes != "" {
		t.Errorf("notes = %q, %q", samples[0].Notes, samples[1].Notes)
	}
	if samples[0].RecordedAt.IsZero() {
		t.Error("RecordedAt not assigned")
	}

	none, err := s.ListEnergySamples(ctx, "carol", 10)
	if err != nil {
		t.Fatalf("ListEnergySamples() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ListEnergySamples() for new user = %#v, want empty non-nil slice", none)
	}
}

func testDailyReflectionMerge(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)
	date := "2026-05-01"
	first := time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC)

	r, err := s.GetDailyReflection(ctx, "alice", date)
	if err != nil || r != nil {
		t.Fatalf("GetDailyReflection() on empty store = %v, %v, want nil, nil", r, err)
	}

	err = s.UpsertDailyReflection(ctx, "alice", date, models.ReflectionPatch{
		Gratitude:    ptr("Friends"),
		Achievements: ptr("Shipped"),
		Challenges:   ptr("Focus"),
		MoodRating:   ptr(4),
	}, first)
	if err != nil {
		t.Fatalf("UpsertDailyReflection() error = %v", err)
	}

	r, err = s.GetDailyReflection(ctx, "alice", date)
	if err != nil || r == nil {
		t.Fatalf("GetDailyReflection() = %v, %v", r, err)
	}
	firstID := r.ID
	if r.Gratitude != "Friends" || r.MoodRating != 4 || r.TomorrowGoals != "" || r.Date != date {
		t.Errorf("stored reflection = %+v", r)
	}

	// Second save the same day: omitted fields keep their values, empty ones clear
	second := first.Add(time.Hour)
	err = s.UpsertDailyReflection(ctx, "alice", date, models.ReflectionPatch{
		Gratitude:     ptr("Family"),
		Challenges:    ptr(""),
		TomorrowGoals: ptr("Rest"),
	}, second)
	if err != nil {
		t.Fatalf("UpsertDailyReflection() error = %v", err)
	}

	r, err = s.GetDailyReflection(ctx, "alice", date)
	if err != nil || r == nil {
		t.Fatalf("GetDailyReflection() = %v, %v", r, err)
	}
	if r.ID != firstID {
		t.Errorf("second save created a new record: %s != %s", r.ID, firstID)
	}
	want := models.DailyReflection{Gratitude: "Family", Achievements: "Shipped", Challenges: "", TomorrowGoals: "Rest", MoodRating: 4}
	if r.Gratitude != want.Gratitude || r.Achievements != want.Achievements || r.Challenges != want.Challenges ||
		r.TomorrowGoals != want.TomorrowGoals || r.MoodRating != want.MoodRating {
		t.Errorf("merged reflection = %+v, want fields of %+v", r, want)
	}
	if !r.CreatedAt.Equal(first) || !r.UpdatedAt.Equal(second) {
		t.Errorf("timestamps created=%v updated=%v, want %v and %v", r.CreatedAt, r.UpdatedAt, first, second)
	}

	if err := s.UpsertDailyReflection(ctx, "alice", date, models.ReflectionPatch{MoodRating: ptr(0)}, second); err != nil {
		t.Fatalf("UpsertDailyReflection() error = %v", err)
	}
	r, _ = s.GetDailyReflection(ctx, "alice", date)
	if r.MoodRating != 0 || r.Gratitude != "Family" {
		t.Errorf("after clearing mood = %+v", r)
	}
}

func testDailyReflectionUserScope(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)
	date := "2026-05-02"

	if err := s.UpsertDailyReflection(ctx, "alice", date, models.ReflectionPatch{Gratitude: ptr("Mine")}, time.Now()); err != nil {
		t.Fatalf("UpsertDailyReflection() error = %v", err)
	}
	if err := s.UpsertDailyReflection(ctx, "bob", date, models.ReflectionPatch{Gratitude: ptr("His")}, time.Now()); err != nil {
		t.Fatalf("UpsertDailyReflection() error = %v", err)
	}

	alice, _ := s.GetDailyReflection(ctx, "alice", date)
	bob, _ := s.GetDailyReflection(ctx, "bob", date)
	if alice == nil || bob == nil || alice.Gratitude != "Mine" || bob.Gratitude != "His" || alice.ID == bob.ID {
		t.Errorf("reflections leaked between users: alice=%+v bob=%+v", alice, bob)
	}

	other, err := s.GetDailyReflection(ctx, "alice", "2026-05-03")
	if err != nil || other != nil {
		t.Errorf("GetDailyReflection(other day) = %v, %v, want nil, nil", other, err)
	}
}
