package models

import "time"

// DailyReflection is the end-of-day journal entry. There is at most one per
// user per date.
type DailyReflection struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"reflection_date"` // YYYY-MM-DD format
	Gratitude     string    `json:"gratitude,omitempty"`
	Achievements  string    `json:"achievements,omitempty"`
	Challenges    string    `json:"challenges,omitempty"`
	TomorrowGoals string    `json:"tomorrow_goals,omitempty"`
	MoodRating    int       `json:"mood_rating,omitempty"` // 1-5, 0 when unrated
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Clone returns a copy of r, or nil when r is nil.
func (r *DailyReflection) Clone() *DailyReflection {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ReflectionPatch carries the fields to write for a reflection. Nil fields
// keep their stored value; an empty string or a zero mood clears the field.
type ReflectionPatch struct {
	Gratitude     *string
	Achievements  *string
	Challenges    *string
	TomorrowGoals *string
	MoodRating    *int
}

// IsEmpty reports whether the patch would write nothing.
func (p ReflectionPatch) IsEmpty() bool {
	return p.Gratitude == nil && p.Achievements == nil && p.Challenges == nil &&
		p.TomorrowGoals == nil && p.MoodRating == nil
}

// Apply returns r with every non-nil field of p written over it.
func (p ReflectionPatch) Apply(r DailyReflection) DailyReflection {
	if p.Gratitude != nil {
		r.Gratitude = *p.Gratitude
	}
	if p.Achievements != nil {
		r.Achievements = *p.Achievements
	}
	if p.Challenges != nil {
		r.Challenges = *p.Challenges
	}
	if p.TomorrowGoals != nil {
		r.TomorrowGoals = *p.TomorrowGoals
	}
	if p.MoodRating != nil {
		r.MoodRating = *p.MoodRating
	}
	return r
}
