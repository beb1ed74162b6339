package database

import (
	"context"
	"fmt"
	"time"

	"habiterr/internal/models"
)

type ActivityStore interface {
	GetActivity(ctx context.Context, userID, id string) (models.Activity, error)
	GetActivityByDay(ctx context.Context, userID, day string) (models.Activity, error)
	ListActivity(ctx context.Context, userID string, r DayRange) ([]models.Activity, error)
	ApplyActivityToggle(ctx context.Context, t ActivityToggle) (models.Activity, error)
	UpsertActivity(ctx context.Context, a models.Activity) (models.Activity, bool, error)
	UpdateActivity(ctx context.Context, a models.Activity) error
	DeleteActivity(ctx context.Context, userID, id string) error
}

// DayRange bounds a ledger query. Empty bounds are open, both ends are
// inclusive.
type DayRange struct {
	From       string
	To         string
	Descending bool
}

// ActivityToggle moves a day's completed count by one. ID is used only when
// the row has to be created.
type ActivityToggle struct {
	ID     string
	UserID string
	Day    string
	Done   bool
	Total  int
	Now    time.Time
}

const activityColumns = `id, user_id, day, completed, total, created_at, updated_at`

func (s *service) GetActivity(ctx context.Context, userID, id string) (models.Activity, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+activityColumns+` FROM activity WHERE id = ? AND user_id = ?`), id, userID)
	return scanActivityRow(row)
}

func (s *service) GetActivityByDay(ctx context.Context, userID, day string) (models.Activity, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+activityColumns+` FROM activity WHERE user_id = ? AND day = ?`), userID, day)
	return scanActivityRow(row)
}

func (s *service) ListActivity(ctx context.Context, userID string, r DayRange) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activity WHERE user_id = ?`
	args := []any{userID}
	if r.From != "" {
		query += ` AND day >= ?`
		args = append(args, r.From)
	}
	if r.To != "" {
		query += ` AND day <= ?`
		args = append(args, r.To)
	}
	if r.Descending {
		query += ` ORDER BY day DESC`
	} else {
		query += ` ORDER BY day ASC`
	}

	activity := make([]models.Activity, 0)
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return activity, fmt.Errorf("error creating activity query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return activity, fmt.Errorf("error scanning activity row: %w", err)
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

func (s *service) ApplyActivityToggle(ctx context.Context, t ActivityToggle) (models.Activity, error) {
	return s.applyToggle(ctx, s.db, t)
}

// applyToggle is a single conditional write: insert the day's row, or move
// the existing count by one, clamped to [0, total].
func (s *service) applyToggle(ctx context.Context, q queryer, t ActivityToggle) (models.Activity, error) {
	delta, initial := -1, 0
	if t.Done {
		delta, initial = 1, 1
	}
	if initial > t.Total {
		initial = t.Total
	}
	now := formatTime(t.Now)

	row := q.QueryRowContext(ctx, s.rebind(
		`INSERT INTO activity (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			completed = CASE
				WHEN activity.completed + ? < 0 THEN 0
				WHEN activity.completed + ? > excluded.total THEN excluded.total
				ELSE activity.completed + ?
			END,
			total = excluded.total,
			updated_at = excluded.updated_at
		RETURNING `+activityColumns),
		t.ID, t.UserID, t.Day, initial, t.Total, now, now,
		delta, delta, delta,
	)
	a, err := scanActivity(row)
	if err != nil {
		return a, fmt.Errorf("error recording activity toggle: %w", err)
	}
	return a, nil
}

// UpsertActivity writes explicit counts for the day. The returned flag is
// true when a new row was created.
func (s *service) UpsertActivity(ctx context.Context, a models.Activity) (models.Activity, bool, error) {
	return s.upsertActivity(ctx, s.db, a)
}

func (s *service) upsertActivity(ctx context.Context, q queryer, a models.Activity) (models.Activity, bool, error) {
	row := q.QueryRowContext(ctx, s.rebind(
		`INSERT INTO activity (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			completed = excluded.completed,
			total = excluded.total,
			updated_at = excluded.updated_at
		RETURNING `+activityColumns),
		a.ID, a.UserID, a.Day, a.Completed, a.Total, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	saved, err := scanActivity(row)
	if err != nil {
		return saved, false, fmt.Errorf("error upserting activity: %w", err)
	}
	return saved, saved.ID == a.ID, nil
}

func (s *service) UpdateActivity(ctx context.Context, a models.Activity) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE activity SET day = ?, completed = ?, total = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		a.Day, a.Completed, a.Total, formatTime(a.UpdatedAt), a.ID, a.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error updating activity: %w", err)
	}
	return affected(res)
}

func (s *service) DeleteActivity(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM activity WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("error deleting activity: %w", err)
	}
	return affected(res)
}

func scanActivityRow(row scanner) (models.Activity, error) {
	a, err := scanActivity(row)
	if err != nil {
		return a, notFound(err, "error retrieving activity")
	}
	return a, nil
}

func scanActivity(row scanner) (models.Activity, error) {
	var a models.Activity
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.UserID, &a.Day, &a.Completed, &a.Total, &createdAt, &updatedAt); err != nil {
		return a, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return a, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return a, err
	}
	return a, nil
}
