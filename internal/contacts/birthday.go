// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts

import (
	"sort"
	"time"

	"github.com/taibuivan/contactly/pkg/slice"
)

// # Birthday Window

// NextOccurrence returns the first anniversary of birthday on or after today.
//
// A 29 February birthday is observed on 28 February in non-leap years.
func NextOccurrence(birthday, today time.Time) time.Time {
	today = truncateDay(today)

	occurrence := anniversary(birthday, today.Year())
	if occurrence.Before(today) {
		occurrence = anniversary(birthday, today.Year()+1)
	}
	return occurrence
}

// InWindow reports whether birthday falls within [today, today+days].
func InWindow(birthday, today time.Time, days int) bool {
	if days < 0 {
		return false
	}
	days = min(days, MaxBirthdayDays)
	today = truncateDay(today)
	end := today.AddDate(0, 0, days)

	return !NextOccurrence(birthday, today).After(end)
}

// WindowMonths lists the calendar months touched by [today, today+days].
// The result seeds the SQL prefilter; [InWindow] decides the exact match.
func WindowMonths(today time.Time, days int) []int32 {
	days = min(days, MaxBirthdayDays)
	today = truncateDay(today)
	end := today.AddDate(0, 0, days)

	seen := make(map[time.Month]bool, 12)
	months := make([]int32, 0, 12)

	cursor := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) && len(months) < 12 {
		if !seen[cursor.Month()] {
			seen[cursor.Month()] = true
			months = append(months, int32(cursor.Month()))
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	return months
}

// Upcoming keeps the contacts whose birthday falls in the window and orders
// them by (month, day) of birth.
func Upcoming(candidates []*Contact, today time.Time, days int) []*Contact {
	matched := slice.Filter(candidates, func(contact *Contact) bool {
		return InWindow(contact.Birthday.Time, today, days)
	})

	sort.SliceStable(matched, func(i, j int) bool {
		left, right := matched[i].Birthday, matched[j].Birthday
		if left.Month() != right.Month() {
			return left.Month() < right.Month()
		}
		return left.Day() < right.Day()
	})

	return matched
}

// anniversary places birthday's month and day in year.
func anniversary(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
