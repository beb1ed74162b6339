package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"habiterr/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testState() State {
	habits := []models.TodayHabit{
		{Habit: models.Habit{ID: "read", Name: "Read"}, Streak: 2},
		{Habit: models.Habit{ID: "walk", Name: "Walk"}, CompletedToday: true, Streak: 5},
	}
	weekly := []models.Activity{
		{Day: "2024-03-14", Completed: 2, Total: 2},
		{Day: "2024-03-15", Completed: 1, Total: 2},
	}
	return New("2024-03-15", habits, weekly, models.StatsSummary{CurrentStreak: 3})
}

func TestApply(t *testing.T) {
	s := testState()

	next, ok := Apply(s, "read")
	require.True(t, ok)
	assert.True(t, next.Habits[0].CompletedToday)
	assert.Equal(t, 3, next.Habits[0].Streak)
	today, ok := next.TodayActivity()
	require.True(t, ok)
	assert.Equal(t, 2, today.Completed)
	assert.True(t, next.IsPending("read"))

	assert.False(t, s.Habits[0].CompletedToday, "input state is not mutated")
	assert.False(t, s.IsPending("read"))

	_, ok = Apply(next, "read")
	assert.False(t, ok, "second toggle while pending")
	_, ok = Apply(next, "missing")
	assert.False(t, ok)
}

func TestApplyCreatesTodayRow(t *testing.T) {
	s := New("2024-03-16", testState().Habits, testState().Weekly, models.StatsSummary{})

	next, ok := Apply(s, "read")
	require.True(t, ok)
	today, ok := next.TodayActivity()
	require.True(t, ok)
	assert.Equal(t, 1, today.Completed)
	assert.Equal(t, 2, today.Total)
}

func TestApplyUncheckClamps(t *testing.T) {
	s := New("2024-03-15", []models.TodayHabit{
		{Habit: models.Habit{ID: "walk"}, CompletedToday: true},
	}, nil, models.StatsSummary{})

	next, ok := Apply(s, "walk")
	require.True(t, ok)
	assert.Equal(t, 0, next.Habits[0].Streak)
	today, _ := next.TodayActivity()
	assert.Equal(t, 0, today.Completed)
}

func TestReconcile(t *testing.T) {
	s, _ := Apply(testState(), "read")

	next := Reconcile(s, models.HabitToggle{
		HabitID:   "read",
		Day:       "2024-03-15",
		Completed: true,
		Activity:  models.Activity{ID: "a1", Day: "2024-03-15", Completed: 2, Total: 3},
	})
	assert.False(t, next.IsPending("read"))
	today, _ := next.TodayActivity()
	assert.Equal(t, "a1", today.ID)
	assert.Equal(t, 3, today.Total)
	assert.True(t, next.Habits[0].CompletedToday)
}

func TestRollback(t *testing.T) {
	orig := testState()
	s, _ := Apply(orig, "walk")

	next := Rollback(s, "walk")
	assert.Equal(t, orig.Habits, next.Habits)
	assert.Equal(t, orig.Weekly, next.Weekly)
	assert.False(t, next.IsPending("walk"))

	assert.Equal(t, next, Rollback(next, "walk"))
}
