package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"habiterr/internal/database"
	"habiterr/internal/models"
)

type LedgerStore interface {
	database.ActivityStore
	CountHabits(ctx context.Context, userID string) (int, error)
	ToggleHabitCheck(ctx context.Context, t database.HabitCheckToggle) (models.HabitToggle, error)
}

const (
	WeeklyWindowDays  = 7
	HeatmapWindowDays = 90
)

// ActivityLedger keeps one row per user per calendar day counting the
// habits completed that day.
type ActivityLedger struct {
	store LedgerStore
	cal   Calendar
	newID func() string
}

func NewActivityLedger(store LedgerStore, cal Calendar) *ActivityLedger {
	return &ActivityLedger{store: store, cal: cal, newID: uuid.NewString}
}

func (l *ActivityLedger) Calendar() Calendar {
	return l.cal
}

func (l *ActivityLedger) GetDay(ctx context.Context, userID, day string) (models.Activity, error) {
	if err := ValidDay(day); err != nil {
		return models.Activity{}, err
	}
	a, err := l.store.GetActivityByDay(ctx, userID, day)
	if err != nil {
		return a, storeErr(err, "error getting activity day")
	}
	return a, nil
}

// RecordToggle moves the day's completed count by one in the direction of
// done, clamped to [0, total], and sets the day's total.
func (l *ActivityLedger) RecordToggle(ctx context.Context, userID, day string, done bool, total int) (models.Activity, error) {
	if err := l.writableDay(day); err != nil {
		return models.Activity{}, err
	}
	if total < 0 {
		return models.Activity{}, invalid("total must not be negative")
	}
	a, err := l.store.ApplyActivityToggle(ctx, database.ActivityToggle{
		ID:     l.newID(),
		UserID: userID,
		Day:    day,
		Done:   done,
		Total:  total,
		Now:    l.cal.now(),
	})
	if err != nil {
		return a, storeErr(err, "error recording toggle")
	}
	return a, nil
}

// ToggleHabit flips a habit's completion for the day and records the change
// in the ledger. An empty day means today.
func (l *ActivityLedger) ToggleHabit(ctx context.Context, userID, habitID, day string) (models.HabitToggle, error) {
	if habitID == "" {
		return models.HabitToggle{}, invalid("id is required")
	}
	if day == "" {
		day = l.cal.Today()
	}
	if err := l.writableDay(day); err != nil {
		return models.HabitToggle{}, err
	}
	res, err := l.store.ToggleHabitCheck(ctx, database.HabitCheckToggle{
		UserID:     userID,
		HabitID:    habitID,
		Day:        day,
		ActivityID: l.newID(),
		Now:        l.cal.now(),
	})
	if err != nil {
		return res, storeErr(err, "error toggling habit")
	}
	slog.Debug("habit toggled", "habitId", habitID, "day", day, "completed", res.Completed)
	return res, nil
}

// Upsert writes explicit counts for a day, creating the row if needed. The
// flag reports whether a row was created.
func (l *ActivityLedger) Upsert(ctx context.Context, userID, day string, completed, total int) (models.Activity, bool, error) {
	a := models.Activity{UserID: userID, Day: day, Completed: completed, Total: total}
	if err := l.validateActivity(a); err != nil {
		return a, false, err
	}
	now := l.cal.now()
	a.ID = l.newID()
	a.CreatedAt, a.UpdatedAt = now, now

	saved, created, err := l.store.UpsertActivity(ctx, a)
	if err != nil {
		return saved, false, storeErr(err, "error saving activity")
	}
	return saved, created, nil
}

func (l *ActivityLedger) Update(ctx context.Context, userID, id string, patch models.ActivityPatch) (models.Activity, error) {
	if id == "" {
		return models.Activity{}, invalid("id is required")
	}
	a, err := l.store.GetActivity(ctx, userID, id)
	if err != nil {
		return a, storeErr(err, "error getting activity")
	}
	patch.Apply(&a)
	if err := l.validateActivity(a); err != nil {
		return a, err
	}
	a.UpdatedAt = l.cal.now()
	if err := l.store.UpdateActivity(ctx, a); err != nil {
		return a, storeErr(err, "activity already recorded for day")
	}
	return a, nil
}

func (l *ActivityLedger) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return invalid("id is required")
	}
	if err := l.store.DeleteActivity(ctx, userID, id); err != nil {
		return storeErr(err, "error deleting activity")
	}
	return nil
}

// ListRange returns rows with from <= day <= to, oldest first. An empty from
// leaves the range open at the start and an empty to means today.
func (l *ActivityLedger) ListRange(ctx context.Context, userID, from, to string) ([]models.Activity, error) {
	if to == "" {
		to = l.cal.Today()
	}
	if err := ValidDay(to); err != nil {
		return nil, err
	}
	if from != "" {
		if err := ValidDay(from); err != nil {
			return nil, err
		}
	}
	rows, err := l.store.ListActivity(ctx, userID, database.DayRange{From: from, To: to})
	if err != nil {
		return nil, storeErr(err, "error listing activity")
	}
	return rows, nil
}

// ListAll returns the whole history, most recent first.
func (l *ActivityLedger) ListAll(ctx context.Context, userID string) ([]models.Activity, error) {
	rows, err := l.store.ListActivity(ctx, userID, database.DayRange{Descending: true})
	if err != nil {
		return nil, storeErr(err, "error listing activity")
	}
	return rows, nil
}

// Window returns the rows from today minus days through today.
func (l *ActivityLedger) Window(ctx context.Context, userID string, days int) ([]models.Activity, error) {
	if days < 0 {
		return nil, invalid("window must not be negative")
	}
	return l.ListRange(ctx, userID, l.cal.DaysAgo(days), l.cal.Today())
}

func (l *ActivityLedger) Windows(ctx context.Context, userID string) (models.ActivityWindows, error) {
	var w models.ActivityWindows
	var err error
	if w.All, err = l.ListAll(ctx, userID); err != nil {
		return w, err
	}
	if w.Weekly, err = l.Window(ctx, userID, WeeklyWindowDays); err != nil {
		return w, err
	}
	if w.Heatmap, err = l.Window(ctx, userID, HeatmapWindowDays); err != nil {
		return w, err
	}
	return w, nil
}

// writableDay rejects malformed days and days after today.
func (l *ActivityLedger) writableDay(day string) error {
	if err := ValidDay(day); err != nil {
		return err
	}
	if today := l.cal.Today(); day > today {
		return invalid("day %s is after today (%s)", day, today)
	}
	return nil
}

func (l *ActivityLedger) validateActivity(a models.Activity) error {
	if err := l.writableDay(a.Day); err != nil {
		return err
	}
	if a.Completed < 0 || a.Total < 0 {
		return invalid("completed and total must not be negative")
	}
	if a.Completed > a.Total {
		return invalid("completed (%d) must not exceed total (%d)", a.Completed, a.Total)
	}
	return nil
}
