package validation

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Deep work", "Deep work", false},
		{"trimmed", "  Deep work \n", "Deep work", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"at limit", strings.Repeat("é", 200), strings.Repeat("é", 200), false},
		{"too long", strings.Repeat("a", 201), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Title(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Title(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	for _, minutes := range []int{1, 25, 180} {
		if err := Duration(minutes); err != nil {
			t.Errorf("Duration(%d) error = %v", minutes, err)
		}
	}
	for _, minutes := range []int{-5, 0, 181} {
		if err := Duration(minutes); !errors.Is(err, apperrors.ErrInvalidDuration) {
			t.Errorf("Duration(%d) error = %v, want ErrInvalidDuration", minutes, err)
		}
	}
}

func TestScheduledTime(t *testing.T) {
	valid := []string{"", "00:00", "09:30", "23:59"}
	invalid := []string{"24:00", "12:60", "9:30", "noon", "09:30:00"}

	for _, s := range valid {
		if err := ScheduledTime(s); err != nil {
			t.Errorf("ScheduledTime(%q) error = %v", s, err)
		}
	}
	for _, s := range invalid {
		if err := ScheduledTime(s); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("ScheduledTime(%q) error = %v, want ErrValidation", s, err)
		}
	}
}

func TestEnergy(t *testing.T) {
	for _, v := range []int{0, 50, 100} {
		if err := Energy(v); err != nil {
			t.Errorf("Energy(%d) error = %v", v, err)
		}
	}
	for _, v := range []int{-1, 101, 150} {
		if err := Energy(v); !errors.Is(err, apperrors.ErrOutOfRange) {
			t.Errorf("Energy(%d) error = %v, want ErrOutOfRange", v, err)
		}
	}
}

func TestMoodRating(t *testing.T) {
	for _, v := range []int{0, 1, 3, 5} {
		if err := MoodRating(v); err != nil {
			t.Errorf("MoodRating(%d) error = %v", v, err)
		}
	}
	for _, v := range []int{-1, 6} {
		if err := MoodRating(v); !errors.Is(err, apperrors.ErrOutOfRange) {
			t.Errorf("MoodRating(%d) error = %v, want ErrOutOfRange", v, err)
		}
	}
}

func TestFocusSessionPatch(t *testing.T) {
	work := models.CategoryWork
	unknown := models.Category("leisure")

	tests := []struct {
		name    string
		patch   models.FocusSessionPatch
		wantErr error
	}{
		{
			name:  "complete create",
			patch: models.FocusSessionPatch{Title: ptr(" Write "), DurationMin: ptr(25), Category: &work},
		},
		{
			name:    "create without title",
			patch:   models.FocusSessionPatch{DurationMin: ptr(25), Category: &work},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "create without category",
			patch:   models.FocusSessionPatch{Title: ptr("Write"), DurationMin: ptr(25)},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "create with zero duration",
			patch:   models.FocusSessionPatch{Title: ptr("Write"), DurationMin: ptr(0), Category: &work},
			wantErr: apperrors.ErrInvalidDuration,
		},
		{
			name:  "partial update",
			patch: models.FocusSessionPatch{ID: "s-1", Completed: ptr(true)},
		},
		{
			name:    "update with unknown category",
			patch:   models.FocusSessionPatch{ID: "s-1", Category: &unknown},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "update with bad scheduled time",
			patch:   models.FocusSessionPatch{ID: "s-1", ScheduledTime: ptr("7pm")},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:  "update clearing scheduled time",
			patch: models.FocusSessionPatch{ID: "s-1", ScheduledTime: ptr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FocusSessionPatch(tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != nil && *got.Title != strings.TrimSpace(*got.Title) {
				t.Errorf("title not trimmed: %q", *got.Title)
			}
		})
	}
}

func TestReflectionPatch(t *testing.T) {
	got, err := ReflectionPatch(models.ReflectionPatch{
		Gratitude:  ptr("  a quiet morning  "),
		Challenges: ptr("   "),
		MoodRating: ptr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got.Gratitude != "a quiet morning" {
		t.Errorf("Gratitude = %q", *got.Gratitude)
	}
	if *got.Challenges != "" {
		t.Errorf("Challenges = %q, want empty", *got.Challenges)
	}
	if got.Achievements != nil {
		t.Error("absent field became present")
	}

	if _, err := ReflectionPatch(models.ReflectionPatch{MoodRating: ptr(7)}); !errors.Is(err, apperrors.ErrOutOfRange) {
		t.Errorf("error = %v, want ErrOutOfRange", err)
	}
}

func TestValidateSessions_Overlap(t *testing.T) {
	validator := New()

	sessions := []models.FocusSession{
		{ID: "1", Title: "Write", DurationMin: 60, ScheduledTime: "09:00"},
		{ID: "2", Title: "Read", DurationMin: 30, ScheduledTime: "09:30"},
		{ID: "3", Title: "Walk", DurationMin: 30, ScheduledTime: "10:00"},
		{ID: "4", Title: "Done already", DurationMin: 60, ScheduledTime: "09:00", Completed: true},
		{ID: "5", Title: "Whenever", DurationMin: 45},
	}

	result := validator.ValidateSessions(sessions)

	var overlaps []Conflict
	for _, c := range result.Conflicts {
		if c.Type == ConflictOverlappingSessions {
			overlaps = append(overlaps, c)
		}
	}
	if len(overlaps) != 1 {
		t.Fatalf("expected 1 overlap, got %d: %s", len(overlaps), result.FormatReport())
	}
	if overlaps[0].SessionIDs[0] != "1" || overlaps[0].SessionIDs[1] != "2" {
		t.Errorf("overlap between %v, want [1 2]", overlaps[0].SessionIDs)
	}
	if overlaps[0].TimeRange != "09:30-10:00" {
		t.Errorf("TimeRange = %q, want 09:30-10:00", overlaps[0].TimeRange)
	}
}

func TestValidateSessions_InvalidAndPastMidnight(t *testing.T) {
	validator := New()

	sessions := []models.FocusSession{
		{ID: "1", Title: "Late", DurationMin: 90, ScheduledTime: "23:00"},
		{ID: "2", Title: "Broken", DurationMin: 30, ScheduledTime: "25:00"},
	}

	result := validator.ValidateSessions(sessions)
	types := map[ConflictType]int{}
	for _, c := range result.Conflicts {
		types[c.Type]++
	}

	if types[ConflictPastMidnight] != 1 {
		t.Errorf("expected 1 past-midnight conflict, got %d", types[ConflictPastMidnight])
	}
	if types[ConflictInvalidDateTime] != 1 {
		t.Errorf("expected 1 invalid time conflict, got %d", types[ConflictInvalidDateTime])
	}
}

func TestValidateSessions_Overcommitted(t *testing.T) {
	validator := New()

	var sessions []models.FocusSession
	for i := 0; i < 5; i++ {
		sessions = append(sessions, models.FocusSession{Title: "Block", DurationMin: 180})
	}

	result := validator.ValidateSessions(sessions)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictOvercommitted {
		t.Fatalf("expected a single overcommitted conflict, got %+v", result.Conflicts)
	}
}

func TestValidateSessions_NoConflicts(t *testing.T) {
	validator := New()

	result := validator.ValidateSessions([]models.FocusSession{
		{ID: "1", Title: "Write", DurationMin: 30, ScheduledTime: "09:00"},
		{ID: "2", Title: "Read", DurationMin: 30, ScheduledTime: "09:30"},
	})

	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}
