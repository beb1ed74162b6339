package database

import (
	"context"
	"fmt"

	"habiterr/internal/models"
)

type StatsStore interface {
	GetStats(ctx context.Context, userID string) (models.Stats, error)
	UpsertStats(ctx context.Context, st models.Stats) (models.Stats, error)
}

const statsColumns = `id, user_id, current_streak, longest_streak, completion, created_at, updated_at`

func (s *service) GetStats(ctx context.Context, userID string) (models.Stats, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+statsColumns+` FROM stats WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`), userID)
	st, err := scanStats(row)
	if err != nil {
		return st, notFound(err, "error retrieving stats")
	}
	return st, nil
}

// UpsertStats keeps one snapshot per user: the existing row is updated in
// place, its id and created_at preserved.
func (s *service) UpsertStats(ctx context.Context, st models.Stats) (models.Stats, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`INSERT INTO stats (`+statsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			completion = excluded.completion,
			updated_at = excluded.updated_at
		RETURNING `+statsColumns),
		st.ID, st.UserID, st.CurrentStreak, st.LongestStreak, st.Completion,
		formatTime(st.CreatedAt), formatTime(st.UpdatedAt),
	)
	saved, err := scanStats(row)
	if err != nil {
		return saved, fmt.Errorf("error upserting stats: %w", err)
	}
	return saved, nil
}

func scanStats(row scanner) (models.Stats, error) {
	var st models.Stats
	var createdAt, updatedAt string
	if err := row.Scan(&st.ID, &st.UserID, &st.CurrentStreak, &st.LongestStreak, &st.Completion, &createdAt, &updatedAt); err != nil {
		return st, err
	}
	var err error
	if st.CreatedAt, err = parseTime(createdAt); err != nil {
		return st, err
	}
	if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return st, err
	}
	return st, nil
}
