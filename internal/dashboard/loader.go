package dashboard

import (
	"context"
	"fmt"

	"habiterr/internal/models"
	"habiterr/internal/services"
)

// Service loads a user's day and sends toggles to the ledger.
type Service struct {
	habits *services.HabitRegistry
	ledger *services.ActivityLedger
	stats  *services.StatsService
}

func NewService(habits *services.HabitRegistry, ledger *services.ActivityLedger, stats *services.StatsService) *Service {
	return &Service{habits: habits, ledger: ledger, stats: stats}
}

func (s *Service) Load(ctx context.Context, userID string) (State, error) {
	cal := s.ledger.Calendar()
	today := cal.Today()

	habits, err := s.habits.Today(ctx, userID, today)
	if err != nil {
		return State{}, fmt.Errorf("error loading habits: %w", err)
	}
	weekly, err := s.ledger.ListRange(ctx, userID, cal.DaysAgo(services.WeeklyWindowDays-1), today)
	if err != nil {
		return State{}, fmt.Errorf("error loading weekly activity: %w", err)
	}
	summary, err := s.stats.Summary(ctx, userID, s.stats.Defaults())
	if err != nil {
		return State{}, fmt.Errorf("error loading stats: %w", err)
	}
	return New(today, habits, weekly, summary), nil
}

func (s *Service) Toggle(ctx context.Context, userID, habitID, day string) (models.HabitToggle, error) {
	return s.ledger.ToggleHabit(ctx, userID, habitID, day)
}

func (s *Service) Summary(ctx context.Context, userID string) (models.StatsSummary, error) {
	return s.stats.Summary(ctx, userID, s.stats.Defaults())
}
