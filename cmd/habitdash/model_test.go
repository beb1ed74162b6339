package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habiterr/internal/dashboard"
	"habiterr/internal/models"
)

type fakeDash struct {
	state     dashboard.State
	toggleErr error
	toggles   int
}

func (f *fakeDash) Load(ctx context.Context, userID string) (dashboard.State, error) {
	return f.state, nil
}

func (f *fakeDash) Toggle(ctx context.Context, userID, habitID, day string) (models.HabitToggle, error) {
	f.toggles++
	if f.toggleErr != nil {
		return models.HabitToggle{}, f.toggleErr
	}
	return models.HabitToggle{
		HabitID:   habitID,
		Day:       day,
		Completed: true,
		Activity:  models.Activity{ID: "a1", Day: day, Completed: 1, Total: 2},
	}, nil
}

func (f *fakeDash) Summary(ctx context.Context, userID string) (models.StatsSummary, error) {
	return models.StatsSummary{CurrentStreak: 1}, nil
}

func testModel(t *testing.T, dash *fakeDash) model {
	t.Helper()
	dash.state = dashboard.New("2024-03-15", []models.TodayHabit{
		{Habit: models.Habit{ID: "read", Name: "Read"}},
		{Habit: models.Habit{ID: "walk", Name: "Walk"}},
	}, nil, models.StatsSummary{})

	m := newModel(dash, "user-1", 80, 24, lipgloss.DefaultRenderer())
	next, _ := m.Update(loadedMsg{state: dash.state})
	return next.(model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestHeaderShowsTodayProgress(t *testing.T) {
	dash := &fakeDash{}
	m := testModel(t, dash)
	assert.Contains(t, m.View(), "today 0/2")

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, m.toggle("read", m.state.Day)())
	assert.Contains(t, m.View(), "today 1/2")
}

func TestCursorMovement(t *testing.T) {
	m := testModel(t, &fakeDash{})

	m, _ = update(t, m, key("k"))
	assert.Equal(t, 0, m.cursor)
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 1, m.cursor)
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 1, m.cursor)
}

func TestToggleReconciles(t *testing.T) {
	dash := &fakeDash{}
	m := testModel(t, dash)

	m, _ = update(t, m, key(" "))
	assert.True(t, m.state.Habits[0].CompletedToday)
	assert.True(t, m.state.IsPending("read"))

	res := m.toggle("read", m.state.Day)()
	m, cmd := update(t, m, res)
	require.NotNil(t, cmd)
	assert.False(t, m.state.IsPending("read"))
	today, ok := m.state.TodayActivity()
	require.True(t, ok)
	assert.Equal(t, "a1", today.ID)

	m, _ = update(t, m, m.refreshSummary()())
	assert.Equal(t, 1, m.state.Summary.CurrentStreak)
	assert.Contains(t, m.View(), "Read")
}

func TestToggleRollsBack(t *testing.T) {
	dash := &fakeDash{toggleErr: errors.New("db down")}
	m := testModel(t, dash)

	m, _ = update(t, m, key(" "))
	require.True(t, m.state.Habits[0].CompletedToday)

	m, _ = update(t, m, m.toggle("read", m.state.Day)())
	assert.False(t, m.state.Habits[0].CompletedToday)
	assert.False(t, m.state.IsPending("read"))
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "db down")
}

func TestQuit(t *testing.T) {
	m := testModel(t, &fakeDash{})
	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
