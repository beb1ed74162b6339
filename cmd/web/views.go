package web

import (
	"fmt"
	"time"

	"habiterr/internal/models"
	"habiterr/internal/services"
)

// MaxHeatLevel is the darkest heatmap shade.
const MaxHeatLevel = 4

type Bar struct {
	Day       string
	Label     string
	Completed int
	Total     int
}

// Height is the bar's fill as a percentage of its total.
func (b Bar) Height() int {
	if b.Total <= 0 {
		return 0
	}
	return min(b.Completed*100/b.Total, 100)
}

func (b Bar) Title() string {
	return fmt.Sprintf("%s: %d/%d", b.Day, b.Completed, b.Total)
}

func (b Bar) Style() string {
	return fmt.Sprintf("height: %d%%", b.Height())
}

type HeatCell struct {
	Day       string
	Completed int
}

func (c HeatCell) Level() int {
	return min(max(c.Completed, 0), MaxHeatLevel)
}

func (c HeatCell) Title() string {
	return fmt.Sprintf("%s: %d", c.Day, c.Completed)
}

type DashboardData struct {
	User    models.User
	Summary models.StatsSummary
	Weekly  []Bar
	Heatmap []HeatCell
	Today   []models.TodayHabit
}

// Bars lays rows out as one bar per day from through to. Days without a row
// get an empty bar.
func Bars(rows []models.Activity, from, to string) []Bar {
	byDay := indexRows(rows)
	var bars []Bar
	for day := from; day <= to; day = services.ShiftDay(day, 1) {
		a := byDay[day]
		bars = append(bars, Bar{Day: day, Label: weekday(day), Completed: a.Completed, Total: a.Total})
	}
	return bars
}

func Heatmap(rows []models.Activity, from, to string) []HeatCell {
	byDay := indexRows(rows)
	var cells []HeatCell
	for day := from; day <= to; day = services.ShiftDay(day, 1) {
		cells = append(cells, HeatCell{Day: day, Completed: byDay[day].Completed})
	}
	return cells
}

func indexRows(rows []models.Activity) map[string]models.Activity {
	m := make(map[string]models.Activity, len(rows))
	for _, r := range rows {
		m[r.Day] = r
	}
	return m
}

func weekday(day string) string {
	t, err := time.Parse(services.DayFormat, day)
	if err != nil {
		return day
	}
	return t.Format("Mon")
}

type summaryCard struct {
	Label string
	Value string
}

func summaryCards(s models.StatsSummary) []summaryCard {
	return []summaryCard{
		{"Current streak", fmt.Sprintf("%d days", s.CurrentStreak)},
		{"Longest streak", fmt.Sprintf("%d days", s.LongestStreak)},
		{"Completion", fmt.Sprintf("%d%%", s.Completion)},
		{"Days tracked", fmt.Sprintf("%d", s.TotalDaysTracked)},
	}
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func toggleLabel(h models.TodayHabit) string {
	if h.CompletedToday {
		return "Undo"
	}
	return "Done"
}
