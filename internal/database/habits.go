package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habiterr/internal/models"
)

type HabitStore interface {
	CreateHabit(ctx context.Context, h models.Habit) error
	GetHabit(ctx context.Context, userID, id string) (models.Habit, error)
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, h models.Habit) error
	DeleteHabit(ctx context.Context, userID, id string) (int64, error)
	CountHabits(ctx context.Context, userID string) (int, error)

	CheckedHabits(ctx context.Context, userID, day string) (map[string]bool, error)
	HabitCheckDays(ctx context.Context, userID, habitID string) ([]string, error)
	ToggleHabitCheck(ctx context.Context, t HabitCheckToggle) (models.HabitToggle, error)
}

// HabitCheckToggle describes a flip of one habit's check for a day.
// ActivityID is used only if the day has no ledger row yet.
type HabitCheckToggle struct {
	UserID     string
	HabitID    string
	Day        string
	ActivityID string
	Now        time.Time
}

const habitColumns = `id, user_id, name, reps, icon, color, created_at, updated_at`

func (s *service) CreateHabit(ctx context.Context, h models.Habit) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.UserID, h.Name, h.RepsPerDay, h.Icon, h.Color,
		formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("error creating habit: %w", err)
	}
	return nil
}

func (s *service) GetHabit(ctx context.Context, userID, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`), id, userID)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h, ErrNotFound
		}
		return h, fmt.Errorf("error retrieving habit: %w", err)
	}
	return h, nil
}

func (s *service) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at, id`), userID)
	if err != nil {
		return habits, fmt.Errorf("error creating habit query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return habits, fmt.Errorf("error scanning habit row: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *service) UpdateHabit(ctx context.Context, h models.Habit) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE habits SET name = ?, reps = ?, icon = ?, color = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		h.Name, h.RepsPerDay, h.Icon, h.Color, formatTime(h.UpdatedAt), h.ID, h.UserID,
	)
	if err != nil {
		return fmt.Errorf("error updating habit: %w", err)
	}
	return affected(res)
}

// DeleteHabit removes the habit and its checks. Ledger rows are left
// untouched.
func (s *service) DeleteHabit(ctx context.Context, userID, id string) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM habit_checks WHERE habit_id = ? AND user_id = ?`), id, userID); err != nil {
			return fmt.Errorf("error deleting habit checks: %w", err)
		}
		res, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM habits WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			return fmt.Errorf("error deleting habit: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	return n, err
}

func (s *service) CountHabits(ctx context.Context, userID string) (int, error) {
	return s.countHabits(ctx, s.db, userID)
}

func (s *service) countHabits(ctx context.Context, q queryer, userID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM habits WHERE user_id = ?`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting habits: %w", err)
	}
	return n, nil
}

// CheckedHabits returns the ids of the habits checked off on day.
func (s *service) CheckedHabits(ctx context.Context, userID, day string) (map[string]bool, error) {
	checked := make(map[string]bool)
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT habit_id FROM habit_checks WHERE user_id = ? AND day = ?`), userID, day)
	if err != nil {
		return checked, fmt.Errorf("error querying habit checks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return checked, fmt.Errorf("error scanning habit check: %w", err)
		}
		checked[id] = true
	}
	return checked, rows.Err()
}

// HabitCheckDays returns the days a habit was checked, most recent first.
func (s *service) HabitCheckDays(ctx context.Context, userID, habitID string) ([]string, error) {
	days := make([]string, 0)
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT day FROM habit_checks WHERE user_id = ? AND habit_id = ? ORDER BY day DESC`), userID, habitID)
	if err != nil {
		return days, fmt.Errorf("error querying habit check days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return days, fmt.Errorf("error scanning habit check day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ToggleHabitCheck flips the habit's check for the day and, in the same
// transaction, sets the day's ledger row to the number of checks recorded
// for that day, clamped to the current habit count.
func (s *service) ToggleHabitCheck(ctx context.Context, t HabitCheckToggle) (models.HabitToggle, error) {
	result := models.HabitToggle{HabitID: t.HabitID, Day: t.Day}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var owned int
		err := tx.QueryRowContext(ctx, s.rebind(
			`SELECT COUNT(*) FROM habits WHERE id = ? AND user_id = ?`), t.HabitID, t.UserID).Scan(&owned)
		if err != nil {
			return fmt.Errorf("error checking habit owner: %w", err)
		}
		if owned == 0 {
			return ErrNotFound
		}

		total, err := s.countHabits(ctx, tx, t.UserID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.rebind(
			`DELETE FROM habit_checks WHERE habit_id = ? AND user_id = ? AND day = ?`),
			t.HabitID, t.UserID, t.Day)
		if err != nil {
			return fmt.Errorf("error clearing habit check: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if removed == 0 {
			if _, err := tx.ExecContext(ctx, s.rebind(
				`INSERT INTO habit_checks (habit_id, user_id, day, created_at) VALUES (?, ?, ?, ?)`),
				t.HabitID, t.UserID, t.Day, formatTime(t.Now)); err != nil {
				return fmt.Errorf("error setting habit check: %w", err)
			}
		}
		result.Completed = removed == 0

		var checked int
		if err := tx.QueryRowContext(ctx, s.rebind(
			`SELECT COUNT(*) FROM habit_checks WHERE user_id = ? AND day = ?`),
			t.UserID, t.Day).Scan(&checked); err != nil {
			return fmt.Errorf("error counting habit checks: %w", err)
		}

		result.Activity, _, err = s.upsertActivity(ctx, tx, models.Activity{
			ID:        t.ActivityID,
			UserID:    t.UserID,
			Day:       t.Day,
			Completed: min(checked, total),
			Total:     total,
			CreatedAt: t.Now,
			UpdatedAt: t.Now,
		})
		return err
	})
	return result, err
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, updatedAt string
	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.RepsPerDay, &h.Icon, &h.Color, &createdAt, &updatedAt); err != nil {
		return h, err
	}
	var err error
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return h, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return h, err
	}
	return h, nil
}
