package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a closed enumeration of the seven weekday names used to key
// a plan's exercise schedule. Stored as its string value in MongoDB.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists all weekdays in Monday-first order, the order trainers
// author schedules in and the order used for deterministic fallbacks.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf derives the Weekday for a calendar date. Time-of-day is ignored.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseWeekday converts a user-supplied weekday name (case-insensitive)
// into the enum, rejecting anything outside Monday..Sunday.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// DateOnly normalizes a timestamp to midnight UTC so that one calendar date
// always maps to exactly one progress record key.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
