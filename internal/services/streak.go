package services

import (
	"math"
	"sort"
	"time"

	"habiterr/internal/models"
)

// ActiveDays returns the days with at least one completed habit.
func ActiveDays(rows []models.Activity) []string {
	days := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Completed > 0 {
			days = append(days, r.Day)
		}
	}
	return days
}

// CurrentStreak counts consecutive active days ending today, or ending
// yesterday when today has nothing completed yet.
func CurrentStreak(days []string, today string) int {
	active := make(map[string]bool, len(days))
	for _, d := range days {
		active[d] = true
	}

	day := today
	if !active[day] {
		day = ShiftDay(today, -1)
	}
	n := 0
	for active[day] {
		n++
		day = ShiftDay(day, -1)
	}
	return n
}

// LongestStreak is the length of the longest run of consecutive active days.
func LongestStreak(days []string) int {
	parsed := make([]time.Time, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		t, err := time.Parse(DayFormat, d)
		if err != nil {
			continue
		}
		seen[d] = true
		parsed = append(parsed, t)
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	longest, run := 0, 0
	for i, t := range parsed {
		if i > 0 && parsed[i-1].AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Completion is sum(completed)/sum(total) as a whole percentage.
func Completion(rows []models.Activity) int {
	var completed, total int
	for _, r := range rows {
		completed += r.Completed
		total += r.Total
	}
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	return min(max(pct, 0), 100)
}

// TotalDaysTracked is the number of whole days since createdAt.
func TotalDaysTracked(createdAt, now time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	d := now.Sub(createdAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
