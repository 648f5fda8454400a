package models

import "time"

// Category groups focus sessions by the kind of work they hold.
type Category string

const (
	CategoryWork       Category = "work"
	CategoryStudy      Category = "study"
	CategoryCreativity Category = "creativity"
	CategoryHealth     Category = "health"
	CategoryPersonal   Category = "personal"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryStudy,
	CategoryCreativity,
	CategoryHealth,
	CategoryPersonal,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FocusSession is a planned block of focused work.
type FocusSession struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	DurationMin   int        `json:"duration_min"`
	Category      Category   `json:"category"`
	Completed     bool       `json:"completed"`
	ScheduledTime string     `json:"scheduled_time,omitempty"` // HH:MM format, empty when unscheduled
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Clone returns a copy of s that shares no pointers with it.
func (s FocusSession) Clone() FocusSession {
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		s.CompletedAt = &at
	}
	return s
}

// FocusSessionPatch describes a create (empty ID) or a partial update (ID set).
// Nil fields are left untouched on update.
type FocusSessionPatch struct {
	ID            string
	Title         *string
	DurationMin   *int
	Category      *Category
	Completed     *bool
	ScheduledTime *string // empty string clears the schedule
	CompletedAt   *time.Time
}

// IsCreate reports whether the patch describes a new session.
func (p FocusSessionPatch) IsCreate() bool {
	return p.ID == ""
}

// Normalize pairs CompletedAt with Completed: marking a session complete
// without a timestamp stamps it with now, and marking it incomplete clears the
// timestamp.
func (p FocusSessionPatch) Normalize(now time.Time) FocusSessionPatch {
	if p.Completed == nil {
		p.CompletedAt = nil
		return p
	}
	if !*p.Completed {
		p.CompletedAt = nil
		return p
	}
	if p.CompletedAt == nil {
		at := now
		p.CompletedAt = &at
	}
	return p
}

// Apply returns s with every non-nil field of p written over it.
func (p FocusSessionPatch) Apply(s FocusSession) FocusSession {
	s = s.Clone()
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.DurationMin != nil {
		s.DurationMin = *p.DurationMin
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.ScheduledTime != nil {
		s.ScheduledTime = *p.ScheduledTime
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
		s.CompletedAt = nil
		if s.Completed && p.CompletedAt != nil {
			at := *p.CompletedAt
			s.CompletedAt = &at
		}
	}
	return s
}
