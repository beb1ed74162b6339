package services

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"habiterr/internal/models"
)

type HabitRegistryStore interface {
	CreateHabit(ctx context.Context, h models.Habit) error
	GetHabit(ctx context.Context, userID, id string) (models.Habit, error)
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, h models.Habit) error
	DeleteHabit(ctx context.Context, userID, id string) (int64, error)
	CheckedHabits(ctx context.Context, userID, day string) (map[string]bool, error)
	HabitCheckDays(ctx context.Context, userID, habitID string) ([]string, error)
}

type HabitInput struct {
	Name       string `json:"name"`
	RepsPerDay int    `json:"reps"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\))$`)

// HabitRegistry is owner-scoped CRUD over habit definitions.
type HabitRegistry struct {
	store HabitRegistryStore
	cal   Calendar
	newID func() string
}

func NewHabitRegistry(store HabitRegistryStore, cal Calendar) *HabitRegistry {
	return &HabitRegistry{store: store, cal: cal, newID: uuid.NewString}
}

func (r *HabitRegistry) Create(ctx context.Context, userID string, in HabitInput) (models.Habit, error) {
	now := r.cal.now()
	h := models.Habit{
		ID:         r.newID(),
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		RepsPerDay: in.RepsPerDay,
		Icon:       in.Icon,
		Color:      in.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if h.RepsPerDay == 0 {
		h.RepsPerDay = 1
	}
	if h.Icon == "" {
		h.Icon = models.IconStar
	}
	if h.Color == "" {
		h.Color = models.DefaultColor
	}
	if err := validateHabit(h); err != nil {
		return models.Habit{}, err
	}
	if err := r.store.CreateHabit(ctx, h); err != nil {
		return models.Habit{}, storeErr(err, "error creating habit")
	}
	return h, nil
}

func (r *HabitRegistry) Get(ctx context.Context, userID, id string) (models.Habit, error) {
	if id == "" {
		return models.Habit{}, invalid("id is required")
	}
	h, err := r.store.GetHabit(ctx, userID, id)
	if err != nil {
		return h, storeErr(err, "error getting habit")
	}
	return h, nil
}

func (r *HabitRegistry) List(ctx context.Context, userID string) ([]models.Habit, error) {
	habits, err := r.store.ListHabits(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "error listing habits")
	}
	return habits, nil
}

func (r *HabitRegistry) Update(ctx context.Context, userID, id string, patch models.HabitPatch) (models.Habit, error) {
	h, err := r.Get(ctx, userID, id)
	if err != nil {
		return h, err
	}
	patch.Apply(&h)
	h.Name = strings.TrimSpace(h.Name)
	if err := validateHabit(h); err != nil {
		return h, err
	}
	h.UpdatedAt = r.cal.now()
	if err := r.store.UpdateHabit(ctx, h); err != nil {
		return h, storeErr(err, "error updating habit")
	}
	return h, nil
}

// Delete removes an owned habit. Past ledger rows are kept as they were.
func (r *HabitRegistry) Delete(ctx context.Context, userID, id string) (int64, error) {
	if id == "" {
		return 0, invalid("id is required")
	}
	n, err := r.store.DeleteHabit(ctx, userID, id)
	if err != nil {
		return 0, storeErr(err, "error deleting habit")
	}
	return n, nil
}

// Today lists the habits with their completion state and streak for day.
// An empty day means today.
func (r *HabitRegistry) Today(ctx context.Context, userID, day string) ([]models.TodayHabit, error) {
	if day == "" {
		day = r.cal.Today()
	}
	if err := ValidDay(day); err != nil {
		return nil, err
	}
	habits, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	checked, err := r.store.CheckedHabits(ctx, userID, day)
	if err != nil {
		return nil, storeErr(err, "error listing habit checks")
	}

	today := make([]models.TodayHabit, 0, len(habits))
	for _, h := range habits {
		days, err := r.store.HabitCheckDays(ctx, userID, h.ID)
		if err != nil {
			return nil, storeErr(err, "error listing habit check days")
		}
		today = append(today, models.TodayHabit{
			Habit:          h,
			CompletedToday: checked[h.ID],
			Streak:         CurrentStreak(days, day),
		})
	}
	return today, nil
}

func validateHabit(h models.Habit) error {
	if h.Name == "" {
		return invalid("name is required")
	}
	if h.RepsPerDay <= 0 {
		return invalid("reps must be positive")
	}
	if !slices.Contains(models.Icons, h.Icon) {
		return invalid("unknown icon %q", h.Icon)
	}
	if !colorPattern.MatchString(h.Color) {
		return invalid("color %q must be a hex or rgb() value", h.Color)
	}
	return nil
}
