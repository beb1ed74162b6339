package web

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habiterr/internal/models"
)

func TestBars(t *testing.T) {
	rows := []models.Activity{
		{Day: "2024-03-14", Completed: 1, Total: 2},
		{Day: "2024-03-16", Completed: 3, Total: 3},
	}
	bars := Bars(rows, "2024-03-13", "2024-03-16")
	require.Len(t, bars, 4)
	assert.Equal(t, 0, bars[0].Height())
	assert.Equal(t, 50, bars[1].Height())
	assert.Equal(t, 100, bars[3].Height())
	assert.Equal(t, "Sat", bars[3].Label)
}

func TestHeatLevels(t *testing.T) {
	cells := Heatmap([]models.Activity{
		{Day: "2024-03-01", Completed: 9},
		{Day: "2024-03-02", Completed: 2},
	}, "2024-03-01", "2024-03-03")
	require.Len(t, cells, 3)
	assert.Equal(t, MaxHeatLevel, cells[0].Level())
	assert.Equal(t, 2, cells[1].Level())
	assert.Equal(t, 0, cells[2].Level())
}

func TestDashboardEscapes(t *testing.T) {
	var buf bytes.Buffer
	err := Dashboard(DashboardData{
		User:    models.User{Name: "<b>Ann</b>"},
		Summary: models.StatsSummary{CurrentStreak: 3, Completion: 67},
		Today: []models.TodayHabit{
			{Habit: models.Habit{ID: "h1", Name: "Read & write", Color: "#3B82F6"}, CompletedToday: true, Streak: 2},
		},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.Contains(t, html, "Read &amp; write")
	assert.Contains(t, html, "67%")
	assert.Contains(t, html, `data-habit-id="h1"`)
	assert.Contains(t, html, `style="color: #3B82F6" data-done>`)
	assert.Contains(t, html, "2 day streak")
	assert.Contains(t, html, ">Undo</button>")
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
}

func TestLoginShowsError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Login("unauthorized").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `<p class="error">unauthorized</p>`)
	assert.Contains(t, buf.String(), `action="/auth/signup"`)

	buf.Reset()
	require.NoError(t, Login("").Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), `class="error"`)
	assert.Contains(t, buf.String(), "<title>Sign in · habiterr</title>")
}

func TestHeatmapRendersLevels(t *testing.T) {
	var buf bytes.Buffer
	err := heatmap(Heatmap([]models.Activity{{Day: "2024-03-02", Completed: 2}}, "2024-03-01", "2024-03-02")).
		Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<div class="cell" data-level="0" title="2024-03-01: 0"></div>`)
	assert.Contains(t, buf.String(), `<div class="cell" data-level="2" title="2024-03-02: 2"></div>`)
}
