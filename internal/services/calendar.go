package services

import (
	"time"
)

// DayFormat is the layout of ledger days.
const DayFormat = "2006-01-02"

// Calendar turns instants into calendar days in a fixed location.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) Today() string {
	return c.now().In(c.loc()).Format(DayFormat)
}

// DaysAgo returns the day n calendar days before today.
func (c Calendar) DaysAgo(n int) string {
	return ShiftDay(c.Today(), -n)
}

// ShiftDay moves a YYYY-MM-DD day by n calendar days. Invalid input is
// returned unchanged.
func ShiftDay(day string, n int) string {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayFormat)
}

func ValidDay(day string) error {
	if _, err := time.Parse(DayFormat, day); err != nil {
		return invalid("day %q must be formatted as YYYY-MM-DD", day)
	}
	return nil
}
