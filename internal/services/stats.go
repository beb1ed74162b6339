package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"habiterr/internal/database"
	"habiterr/internal/models"
)

type StatsStore interface {
	ListActivity(ctx context.Context, userID string, r database.DayRange) ([]models.Activity, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetStats(ctx context.Context, userID string) (models.Stats, error)
	UpsertStats(ctx context.Context, st models.Stats) (models.Stats, error)
}

// StatsOptions selects the completion window. WindowDays <= 0 uses all
// recorded activity up to today.
type StatsOptions struct {
	WindowDays int
}

// StatsService derives engagement metrics from the activity ledger. The
// stored snapshot is a cache; Summary always reads the ledger.
type StatsService struct {
	store    StatsStore
	cal      Calendar
	defaults StatsOptions
	newID    func() string
}

func NewStatsService(store StatsStore, cal Calendar, defaults StatsOptions) *StatsService {
	return &StatsService{store: store, cal: cal, defaults: defaults, newID: uuid.NewString}
}

func (s *StatsService) Defaults() StatsOptions {
	return s.defaults
}

func (s *StatsService) Summary(ctx context.Context, userID string, opts StatsOptions) (models.StatsSummary, error) {
	var summary models.StatsSummary

	rows, err := s.store.ListActivity(ctx, userID, database.DayRange{})
	if err != nil {
		return summary, storeErr(err, "error listing activity")
	}
	days := ActiveDays(rows)
	summary.CurrentStreak = CurrentStreak(days, s.cal.Today())
	summary.LongestStreak = LongestStreak(days)
	summary.Completion = Completion(s.window(rows, opts))

	user, err := s.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		summary.TotalDaysTracked = TotalDaysTracked(user.CreatedAt, s.cal.now())
	case errors.Is(err, database.ErrNotFound):
	default:
		return summary, storeErr(err, "error getting user")
	}
	return summary, nil
}

// Snapshot recomputes the metrics and stores them as the user's snapshot.
func (s *StatsService) Snapshot(ctx context.Context, userID string, opts StatsOptions) (models.Stats, error) {
	summary, err := s.Summary(ctx, userID, opts)
	if err != nil {
		return models.Stats{}, err
	}
	now := s.cal.now()
	st, err := s.store.UpsertStats(ctx, models.Stats{
		ID:            s.newID(),
		UserID:        userID,
		CurrentStreak: summary.CurrentStreak,
		LongestStreak: summary.LongestStreak,
		Completion:    summary.Completion,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return st, storeErr(err, "error saving stats")
	}
	return st, nil
}

// Latest returns the stored snapshot.
func (s *StatsService) Latest(ctx context.Context, userID string) (models.Stats, error) {
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return st, storeErr(err, "error getting stats")
	}
	return st, nil
}

// window keeps the rows between today minus WindowDays and today. Rows
// dated after today never count.
func (s *StatsService) window(rows []models.Activity, opts StatsOptions) []models.Activity {
	from, today := "", s.cal.Today()
	if opts.WindowDays > 0 {
		from = s.cal.DaysAgo(opts.WindowDays)
	}
	windowed := make([]models.Activity, 0, len(rows))
	for _, r := range rows {
		if r.Day >= from && r.Day <= today {
			windowed = append(windowed, r)
		}
	}
	return windowed
}
