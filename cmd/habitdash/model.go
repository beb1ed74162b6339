package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"habiterr/internal/dashboard"
	"habiterr/internal/models"
)

const (
	Strikethrough = "\033[9m"
	Reset         = "\033[0m"
	barWidth      = 20
	refreshEvery  = 30 * time.Second
	callTimeout   = 5 * time.Second
)

type dashClient interface {
	Load(ctx context.Context, userID string) (dashboard.State, error)
	Toggle(ctx context.Context, userID, habitID, day string) (models.HabitToggle, error)
	Summary(ctx context.Context, userID string) (models.StatsSummary, error)
}

type (
	tickMsg    struct{}
	loadedMsg  struct{ state dashboard.State }
	summaryMsg struct{ summary models.StatsSummary }
	errMsg     struct{ err error }
	toggledMsg struct{ res models.HabitToggle }

	toggleFailedMsg struct {
		habitID string
		err     error
	}
)

type model struct {
	dash   dashClient
	userID string

	state  dashboard.State
	cursor int
	err    error

	width     int
	height    int
	txtStyle  lipgloss.Style
	quitStyle lipgloss.Style
	barStyle  lipgloss.Style
	errStyle  lipgloss.Style
	viewport  viewport.Model
	ready     bool
}

func newModel(dash dashClient, userID string, width, height int, renderer *lipgloss.Renderer) model {
	return model{
		dash:      dash,
		userID:    userID,
		width:     width,
		height:    height,
		txtStyle:  renderer.NewStyle().Foreground(lipgloss.Color("31")),
		quitStyle: renderer.NewStyle().Foreground(lipgloss.Color("8")),
		barStyle:  renderer.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		errStyle:  renderer.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg{} })
}

func (m model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		state, err := m.dash.Load(ctx, m.userID)
		if err != nil {
			return errMsg{err: err}
		}
		return loadedMsg{state: state}
	}
}

func (m model) toggle(habitID, day string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		res, err := m.dash.Toggle(ctx, m.userID, habitID, day)
		if err != nil {
			return toggleFailedMsg{habitID: habitID, err: err}
		}
		return toggledMsg{res: res}
	}
}

func (m model) refreshSummary() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		summary, err := m.dash.Summary(ctx, m.userID)
		if err != nil {
			return errMsg{err: err}
		}
		return summaryMsg{summary: summary}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Height = msg.Height
			m.viewport.Width = msg.Width
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.state.Habits)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case " ", "space":
			if m.cursor < len(m.state.Habits) {
				id := m.state.Habits[m.cursor].ID
				if next, ok := dashboard.Apply(m.state, id); ok {
					m.state = next
					cmds = append(cmds, m.toggle(id, next.Day))
				}
			}
		case "r":
			cmds = append(cmds, m.load())
		}
	case tickMsg:
		cmds = append(cmds, m.load(), tick())
	case loadedMsg:
		m.state = msg.state
		m.err = nil
		m.cursor = min(m.cursor, max(len(m.state.Habits)-1, 0))
	case toggledMsg:
		m.state = dashboard.Reconcile(m.state, msg.res)
		m.err = nil
		cmds = append(cmds, m.refreshSummary())
	case toggleFailedMsg:
		slog.Error("error toggling habit", "habitId", msg.habitID, "err", msg.err)
		m.state = dashboard.Rollback(m.state, msg.habitID)
		m.err = fmt.Errorf("error toggling habit: %w", msg.err)
	case summaryMsg:
		m.state.Summary = msg.summary
	case errMsg:
		slog.Error("error updating state", "err", msg.err)
		m.err = msg.err
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport.SetContent(m.content())
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m model) content() string {
	title := m.txtStyle.Render("habiterr  " + m.state.Day + "  " + m.todayProgress())

	s := m.state.Summary
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		card("streak", fmt.Sprintf("%d", s.CurrentStreak)),
		card("longest", fmt.Sprintf("%d", s.LongestStreak)),
		card("completion", fmt.Sprintf("%d%%", s.Completion)),
		card("tracked", fmt.Sprintf("%d", s.TotalDaysTracked)),
	)

	sections := []string{title, stats, m.weeklyChart(), m.habitTable()}
	if m.err != nil {
		sections = append(sections, m.errStyle.Render(m.err.Error()))
	}
	sections = append(sections, m.quitStyle.Render("j/k move • space toggle • r refresh • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// todayProgress reads today's ledger row, falling back to the habit list
// before the day has one.
func (m model) todayProgress() string {
	if a, ok := m.state.TodayActivity(); ok {
		return fmt.Sprintf("today %d/%d", a.Completed, a.Total)
	}
	return fmt.Sprintf("today 0/%d", len(m.state.Habits))
}

func card(label, value string) string {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(label + "\n" + value)
}

func (m model) weeklyChart() string {
	lines := make([]string, 0, len(m.state.Weekly))
	for _, a := range m.state.Weekly {
		filled := 0
		if a.Total > 0 {
			filled = a.Completed * barWidth / a.Total
		}
		bar := m.barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
		lines = append(lines, fmt.Sprintf("%s %s %d/%d", weekday(a.Day), bar, a.Completed, a.Total))
	}
	if len(lines) == 0 {
		return "no activity this week"
	}
	return strings.Join(lines, "\n")
}

func weekday(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Mon")
}

func (m model) habitTable() string {
	rows := make([][]string, 0, len(m.state.Habits))
	for i, h := range m.state.Habits {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		name := h.Name
		if h.CompletedToday {
			name = Strikethrough + name + Reset
		}
		if m.state.IsPending(h.ID) {
			name += " …"
		}
		rows = append(rows, []string{cursor, name, fmt.Sprintf("%d", h.Streak)})
	}
	if len(rows) == 0 {
		return "no habits yet"
	}
	return table.New().Border(lipgloss.HiddenBorder()).Rows(rows...).Render()
}

func (m model) View() string {
	if !m.ready {
		return m.content()
	}
	return m.viewport.View()
}
