// Package dashboard holds the client-side mirror of a user's day. Toggles are
// applied locally first, then reconciled with the server's answer or rolled
// back when the call fails.
package dashboard

import (
	"slices"

	"habiterr/internal/models"
)

type State struct {
	Day     string
	Habits  []models.TodayHabit
	Weekly  []models.Activity
	Summary models.StatsSummary

	pending map[string]Pending
}

// Pending records what a habit looked like before an optimistic toggle.
type Pending struct {
	HabitID string
	Habit   models.TodayHabit
	Weekly  []models.Activity
	Summary models.StatsSummary
}

func New(day string, habits []models.TodayHabit, weekly []models.Activity, summary models.StatsSummary) State {
	return State{
		Day:     day,
		Habits:  slices.Clone(habits),
		Weekly:  slices.Clone(weekly),
		Summary: summary,
	}
}

func (s State) IsPending(habitID string) bool {
	_, ok := s.pending[habitID]
	return ok
}

// TodayActivity returns the weekly row for the state's day, if any.
func (s State) TodayActivity() (models.Activity, bool) {
	for _, a := range s.Weekly {
		if a.Day == s.Day {
			return a, true
		}
	}
	return models.Activity{}, false
}

func (s State) indexOf(habitID string) int {
	return slices.IndexFunc(s.Habits, func(h models.TodayHabit) bool { return h.ID == habitID })
}

func (s State) clone() State {
	c := s
	c.Habits = slices.Clone(s.Habits)
	c.Weekly = slices.Clone(s.Weekly)
	c.pending = make(map[string]Pending, len(s.pending))
	for k, v := range s.pending {
		c.pending[k] = v
	}
	return c
}

// Apply flips a habit locally. It reports false when the habit is unknown or
// already has a toggle in flight.
func Apply(s State, habitID string) (State, bool) {
	i := s.indexOf(habitID)
	if i < 0 || s.IsPending(habitID) {
		return s, false
	}
	next := s.clone()
	next.pending[habitID] = Pending{
		HabitID: habitID,
		Habit:   s.Habits[i],
		Weekly:  slices.Clone(s.Weekly),
		Summary: s.Summary,
	}

	h := &next.Habits[i]
	h.CompletedToday = !h.CompletedToday
	if h.CompletedToday {
		h.Streak++
	} else if h.Streak > 0 {
		h.Streak--
	}

	total := len(next.Habits)
	done := h.CompletedToday
	j := slices.IndexFunc(next.Weekly, func(a models.Activity) bool { return a.Day == next.Day })
	if j < 0 {
		next.Weekly = append(next.Weekly, models.Activity{Day: next.Day, Total: total})
		j = len(next.Weekly) - 1
	}
	row := &next.Weekly[j]
	row.Total = total
	if done {
		row.Completed = min(row.Completed+1, total)
	} else {
		row.Completed = max(row.Completed-1, 0)
	}
	return next, true
}

// Reconcile replaces the optimistic guess with the server's result.
func Reconcile(s State, res models.HabitToggle) State {
	next := s.clone()
	delete(next.pending, res.HabitID)

	if i := next.indexOf(res.HabitID); i >= 0 && res.Day == next.Day {
		next.Habits[i].CompletedToday = res.Completed
	}
	j := slices.IndexFunc(next.Weekly, func(a models.Activity) bool { return a.Day == res.Activity.Day })
	if j >= 0 {
		next.Weekly[j] = res.Activity
	} else if res.Activity.Day != "" {
		next.Weekly = append(next.Weekly, res.Activity)
	}
	return next
}

// Rollback restores the habit, weekly chart and summary captured by Apply.
func Rollback(s State, habitID string) State {
	p, ok := s.pending[habitID]
	if !ok {
		return s
	}
	next := s.clone()
	delete(next.pending, habitID)
	if i := next.indexOf(habitID); i >= 0 {
		next.Habits[i] = p.Habit
	}
	next.Weekly = p.Weekly
	next.Summary = p.Summary
	return next
}
