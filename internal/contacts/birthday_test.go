// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/contactly/internal/contacts"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

/*
TestInWindow covers the year wrap, leap days and window edges.
*/
func TestInWindow(t *testing.T) {
	tests := []struct {
		name     string
		birthday time.Time
		today    time.Time
		days     int
		want     bool
	}{
		{"wraps_into_january", day(2024, time.January, 3), day(2024, time.December, 28), 7, true},
		{"already_passed", day(2024, time.December, 20), day(2024, time.December, 28), 7, false},
		{"today_included", day(1990, time.December, 28), day(2024, time.December, 28), 7, true},
		{"last_day_included", day(1990, time.January, 4), day(2024, time.December, 28), 7, true},
		{"day_after_window", day(1990, time.January, 5), day(2024, time.December, 28), 7, false},
		{"zero_days_today_only", day(1985, time.March, 10), day(2025, time.March, 10), 0, true},
		{"month_boundary_short_month", day(1985, time.May, 2), day(2025, time.April, 28), 4, true},
		{"leap_day_observed_feb_28", day(2000, time.February, 29), day(2025, time.February, 25), 3, true},
		{"leap_day_in_leap_year", day(2000, time.February, 29), day(2028, time.February, 25), 3, false},
		{"leap_day_exact_in_leap_year", day(2000, time.February, 29), day(2028, time.February, 25), 4, true},
		{"long_window", day(1970, time.July, 1), day(2025, time.January, 1), 365, true},
		{"huge_window_clamped", day(1985, time.January, 3), day(2024, time.December, 28), math.MaxInt, true},
		{"huge_window_same_day", day(1995, time.December, 27), day(2024, time.December, 28), math.MaxInt, true},
		{"negative_days", day(1970, time.July, 1), day(2025, time.July, 1), -1, false},
		{"time_of_day_ignored", day(1970, time.July, 1), time.Date(2025, time.July, 1, 23, 59, 0, 0, time.UTC), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contacts.InWindow(tt.birthday, tt.today, tt.days))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	assert.Equal(t, day(2025, time.January, 3), contacts.NextOccurrence(day(1999, time.January, 3), day(2024, time.December, 28)))
	assert.Equal(t, day(2025, time.February, 28), contacts.NextOccurrence(day(2000, time.February, 29), day(2025, time.January, 1)))
	assert.Equal(t, day(2024, time.February, 29), contacts.NextOccurrence(day(2000, time.February, 29), day(2024, time.January, 1)))
}

func TestWindowMonths(t *testing.T) {
	assert.Equal(t, []int32{12, 1}, contacts.WindowMonths(day(2024, time.December, 28), 7))
	assert.Equal(t, []int32{3}, contacts.WindowMonths(day(2025, time.March, 1), 10))
	assert.Equal(t, []int32{1, 2, 3}, contacts.WindowMonths(day(2025, time.January, 31), 31))
	assert.Len(t, contacts.WindowMonths(day(2025, time.June, 15), 400), 12)
	assert.Len(t, contacts.WindowMonths(day(2024, time.December, 28), math.MaxInt), 12)
}

/*
TestUpcoming filters by window and orders by month then day.
*/
func TestUpcoming(t *testing.T) {
	candidates := []*contacts.Contact{
		{ID: 1, Birthday: contacts.NewDate(1990, time.December, 30)},
		{ID: 2, Birthday: contacts.NewDate(1985, time.January, 3)},
		{ID: 3, Birthday: contacts.NewDate(1970, time.December, 20)},
		{ID: 4, Birthday: contacts.NewDate(2001, time.January, 1)},
		{ID: 5, Birthday: contacts.NewDate(1995, time.December, 28)},
	}

	got := contacts.Upcoming(candidates, day(2024, time.December, 28), 7)

	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{4, 2, 5, 1}, ids)
}
