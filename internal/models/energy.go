package models

import "time"

// EnergySample is one self-reported energy reading. Samples are append-only.
type EnergySample struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Value      int       `json:"energy_value"` // 0-100
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Energy is the current energy level shown to the user. Pending is set when
// Value was applied locally after a write and has not yet been confirmed by a
// fetch from the store.
type Energy struct {
	Value   int  `json:"value"`
	Pending bool `json:"pending"`
}
