package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/focusflow/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	return InTimezone(time.Now(), timezone)
}

// InTimezone converts t to the specified timezone.
func InTimezone(t time.Time, timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return t.In(loc), nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	return DateInTimezone(time.Now(), timezone)
}

// DateInTimezone returns the calendar date (YYYY-MM-DD) of t as seen in the
// specified timezone.
func DateInTimezone(t time.Time, timezone string) (string, error) {
	local, err := InTimezone(t, timezone)
	if err != nil {
		return "", err
	}
	return local.Format(constants.DateFormat), nil
}

// ClockInTimezone returns the wall-clock time (HH:MM) of t in the specified timezone.
func ClockInTimezone(t time.Time, timezone string) (string, error) {
	local, err := InTimezone(t, timezone)
	if err != nil {
		return "", err
	}
	return local.Format(constants.TimeFormat), nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// FormatClock renders a number of seconds as MM:SS. Minutes are not wrapped
// into hours, so 90 minutes renders as 90:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders a number of minutes the way session lists show it.
func FormatDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
	}
}
