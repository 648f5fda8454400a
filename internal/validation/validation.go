package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/focusflow/internal/constants"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
	"github.com/julianstephens/focusflow/internal/models"
)

// Title trims a session title and checks that it is non-empty and not too long.
func Title(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrValidation, constants.MaxTitleLength)
	}
	return title, nil
}

// Duration checks a focus session duration in minutes.
func Duration(minutes int) error {
	if minutes < 1 || minutes > constants.MaxFocusDurationMin {
		return fmt.Errorf("%w: duration must be between 1 and %d minutes, got %d",
			apperrors.ErrInvalidDuration, constants.MaxFocusDurationMin, minutes)
	}
	return nil
}

// Category checks that c is a known category.
func Category(c models.Category) error {
	if !c.Valid() {
		names := make([]string, len(models.Categories))
		for i, known := range models.Categories {
			names[i] = string(known)
		}
		return fmt.Errorf("%w: unknown category %q (expected one of %s)",
			apperrors.ErrValidation, c, strings.Join(names, ", "))
	}
	return nil
}

// ScheduledTime checks an optional HH:MM time of day. Empty means unscheduled.
func ScheduledTime(hhmm string) error {
	if hhmm == "" {
		return nil
	}
	if !isValidTimeFormat(hhmm) {
		return fmt.Errorf("%w: scheduled time %q must be HH:MM", apperrors.ErrValidation, hhmm)
	}
	return nil
}

// Energy checks an energy reading.
func Energy(value int) error {
	if value < constants.MinEnergy || value > constants.MaxEnergy {
		return fmt.Errorf("%w: energy must be between %d and %d, got %d",
			apperrors.ErrOutOfRange, constants.MinEnergy, constants.MaxEnergy, value)
	}
	return nil
}

// MoodRating checks a mood rating. Zero means unrated.
func MoodRating(mood int) error {
	if mood == 0 {
		return nil
	}
	if mood < constants.MinMoodRating || mood > constants.MaxMoodRating {
		return fmt.Errorf("%w: mood rating must be between %d and %d, got %d",
			apperrors.ErrOutOfRange, constants.MinMoodRating, constants.MaxMoodRating, mood)
	}
	return nil
}

// FocusSessionPatch validates every field present in p and returns a copy
// with the title trimmed. A create patch must carry a title, a duration and a
// category.
func FocusSessionPatch(p models.FocusSessionPatch) (models.FocusSessionPatch, error) {
	if p.IsCreate() {
		switch {
		case p.Title == nil:
			return p, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
		case p.DurationMin == nil:
			return p, fmt.Errorf("%w: duration is required", apperrors.ErrValidation)
		case p.Category == nil:
			return p, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
		}
	}

	if p.Title != nil {
		title, err := Title(*p.Title)
		if err != nil {
			return p, err
		}
		p.Title = &title
	}
	if p.DurationMin != nil {
		if err := Duration(*p.DurationMin); err != nil {
			return p, err
		}
	}
	if p.Category != nil {
		if err := Category(*p.Category); err != nil {
			return p, err
		}
	}
	if p.ScheduledTime != nil {
		hhmm := strings.TrimSpace(*p.ScheduledTime)
		if err := ScheduledTime(hhmm); err != nil {
			return p, err
		}
		p.ScheduledTime = &hhmm
	}
	return p, nil
}

// ReflectionPatch validates p and returns a copy with every text field trimmed.
func ReflectionPatch(p models.ReflectionPatch) (models.ReflectionPatch, error) {
	if p.MoodRating != nil {
		if err := MoodRating(*p.MoodRating); err != nil {
			return p, err
		}
	}
	p.Gratitude = trimmed(p.Gratitude)
	p.Achievements = trimmed(p.Achievements)
	p.Challenges = trimmed(p.Challenges)
	p.TomorrowGoals = trimmed(p.TomorrowGoals)
	return p, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// ConflictType represents the type of scheduling conflict
type ConflictType string

const (
	ConflictOverlappingSessions ConflictType = "overlapping_sessions"
	ConflictPastMidnight        ConflictType = "past_midnight"
	ConflictOvercommitted       ConflictType = "overcommitted"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
)

// MaxDailyFocusMin is the planned focus time above which a day is reported as overcommitted.
const MaxDailyFocusMin = 12 * 60

// Conflict represents a detected conflict between focus sessions
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Session titles involved
	TimeRange   string   // Human-readable time range (if applicable)
	SessionIDs  []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a day's focus sessions for scheduling conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateSessions checks the open (not completed) sessions for invalid
// scheduled times, sessions that overlap each other or run past midnight, and
// a day planned beyond MaxDailyFocusMin.
func (v *Validator) ValidateSessions(sessions []models.FocusSession) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	type block struct {
		session    models.FocusSession
		start, end int
	}
	var blocks []block
	plannedMin := 0

	for _, s := range sessions {
		if s.Completed {
			continue
		}
		plannedMin += s.DurationMin

		if s.ScheduledTime == "" {
			continue
		}
		start, err := parseTimeToMinutes(s.ScheduledTime)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Session \"%s\" has invalid scheduled time: %s", s.Title, s.ScheduledTime),
				Items:       []string{s.Title},
				SessionIDs:  []string{s.ID},
			})
			continue
		}

		end := start + s.DurationMin
		if end > 24*60 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPastMidnight,
				Description: fmt.Sprintf("Session \"%s\" starting at %s runs past midnight", s.Title, s.ScheduledTime),
				Items:       []string{s.Title},
				TimeRange:   fmt.Sprintf("%s-%s", s.ScheduledTime, formatMinutes(end)),
				SessionIDs:  []string{s.ID},
			})
		}
		blocks = append(blocks, block{session: s, start: start, end: end})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].start < blocks[j].start
	})

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			a, b := blocks[i], blocks[j]
			if b.start >= a.end {
				break
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOverlappingSessions,
				Description: fmt.Sprintf("Sessions \"%s\" (%s-%s) and \"%s\" (%s-%s) overlap",
					a.session.Title, formatMinutes(a.start), formatMinutes(a.end),
					b.session.Title, formatMinutes(b.start), formatMinutes(b.end)),
				Items:      []string{a.session.Title, b.session.Title},
				TimeRange:  fmt.Sprintf("%s-%s", formatMinutes(b.start), formatMinutes(min(a.end, b.end))),
				SessionIDs: []string{a.session.ID, b.session.ID},
			})
		}
	}

	if plannedMin > MaxDailyFocusMin {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictOvercommitted,
			Description: fmt.Sprintf("Overcommitted: %d minutes of focus planned, more than %d",
				plannedMin, MaxDailyFocusMin),
		})
	}

	return result
}

// Helper functions

func isValidTimeFormat(timeStr string) bool {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil && t.Format(constants.TimeFormat) == timeStr
}

func parseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}
