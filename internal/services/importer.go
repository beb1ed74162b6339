package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"habiterr/clients/habitica"
	"habiterr/internal/models"
)

// HabiticaSource is the part of the Habitica client the importer needs.
type HabiticaSource interface {
	GetHabits(ctx context.Context) ([]habitica.Habit, error)
	GetDailys(ctx context.Context, dueDate string) ([]habitica.Daily, error)
}

// ImportOptions selects what to copy besides habits. Dailys brings in the
// Habitica dailys that are due today.
type ImportOptions struct {
	Dailys bool
}

type ImportResult struct {
	Created []models.Habit `json:"created"`
	Skipped []string       `json:"skipped"`
}

// HabiticaImporter copies Habitica habits into the registry. Habits already
// present by name (case-insensitive) are skipped.
type HabiticaImporter struct {
	source   HabiticaSource
	registry *HabitRegistry
}

func NewHabiticaImporter(source HabiticaSource, registry *HabitRegistry) *HabiticaImporter {
	return &HabiticaImporter{source: source, registry: registry}
}

func (im *HabiticaImporter) Import(ctx context.Context, userID string, opts ImportOptions) (ImportResult, error) {
	var res ImportResult

	habits, err := im.source.GetHabits(ctx)
	if err != nil {
		return res, fmt.Errorf("error fetching habitica habits: %w", err)
	}
	tasks := make([]habitica.Task, 0, len(habits))
	for _, h := range habits {
		tasks = append(tasks, h.Task)
	}

	if opts.Dailys {
		today := im.registry.cal.Today()
		dailys, err := im.source.GetDailys(ctx, today)
		if err != nil {
			return res, fmt.Errorf("error fetching habitica dailys: %w", err)
		}
		for _, d := range dailys {
			if !d.IsDue {
				slog.Debug("skipping daily not due", "text", d.Text, "day", today)
				continue
			}
			tasks = append(tasks, d.Task)
		}
	}

	existing, err := im.registry.List(ctx, userID)
	if err != nil {
		return res, err
	}
	seen := make(map[string]bool, len(existing))
	for _, h := range existing {
		seen[strings.ToLower(h.Name)] = true
	}

	for _, task := range tasks {
		name := strings.TrimSpace(task.Text)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		reps, ok := task.ParseGoal()
		if !ok {
			reps = 1
		}
		h, err := im.registry.Create(ctx, userID, HabitInput{
			Name:       name,
			RepsPerDay: reps,
			Icon:       models.IconStar,
			Color:      models.DefaultColor,
		})
		if err != nil {
			return res, fmt.Errorf("error importing %q: %w", name, err)
		}
		seen[key] = true
		res.Created = append(res.Created, h)
	}
	slog.Info("imported habitica tasks", "userId", userID, "dailys", opts.Dailys, "created", len(res.Created), "skipped", len(res.Skipped))
	return res, nil
}
