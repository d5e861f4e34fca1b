package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	// 2025-05-12 is a Monday.
	monday := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		got := WeekdayOf(monday.AddDate(0, 0, i))
		assert.Equal(t, want, got)
	}
}

func TestWeekdayOf_IgnoresTimeOfDay(t *testing.T) {
	lateWednesday := time.Date(2025, 5, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Wednesday, WeekdayOf(lateWednesday))
}

func TestParseWeekday(t *testing.T) {
	testCases := []struct {
		input string
		want  Weekday
	}{
		{"Monday", Monday},
		{"monday", Monday},
		{"SUNDAY", Sunday},
		{"friday", Friday},
	}
	for _, tc := range testCases {
		got, err := ParseWeekday(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseWeekday_Invalid(t *testing.T) {
	for _, input := range []string{"", "Mon", "Funday", "Monday "} {
		_, err := ParseWeekday(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 5, 14, 18, 30, 45, 123, time.UTC)
	assert.Equal(t, time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}

func TestDateOnly_NormalizesZone(t *testing.T) {
	// 23:00 UTC-3 is already the 15th in UTC; the key follows UTC.
	zone := time.FixedZone("UTC-3", -3*60*60)
	ts := time.Date(2025, 5, 14, 23, 0, 0, 0, zone)
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
