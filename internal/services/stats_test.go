package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habiterr/internal/database"
	"habiterr/internal/models"
)

func TestSummaryNewUser(t *testing.T) {
	env := setupTestEnv(t)
	u := signup(t, env, "a@example.com")

	summary, err := env.stats.Summary(context.Background(), u.ID, env.stats.Defaults())
	require.NoError(t, err)
	assert.Equal(t, models.StatsSummary{}, summary)
}

func TestSummary(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := signup(t, env, "a@example.com")

	rows := []struct {
		day              string
		completed, total int
	}{
		{"2024-03-15", 1, 2},
		{"2024-03-14", 2, 2},
		{"2024-03-13", 1, 2},
		{"2024-03-12", 0, 2},
		{"2024-01-01", 2, 2},
		{"2024-01-02", 2, 2},
		{"2024-01-03", 2, 2},
		{"2024-01-04", 2, 2},
	}
	for _, r := range rows {
		_, _, err := env.ledger.Upsert(ctx, u.ID, r.day, r.completed, r.total)
		require.NoError(t, err)
	}

	summary, err := env.stats.Summary(ctx, u.ID, StatsOptions{WindowDays: 30})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CurrentStreak)
	assert.Equal(t, 4, summary.LongestStreak)
	assert.Equal(t, 50, summary.Completion)

	all, err := env.stats.Summary(ctx, u.ID, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 75, all.Completion)
}

func TestSummaryIgnoresFutureRows(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := signup(t, env, "a@example.com")

	_, _, err := env.ledger.Upsert(ctx, u.ID, "2024-03-15", 1, 1)
	require.NoError(t, err)
	// Written around the ledger, which refuses days after today.
	_, _, err = env.store.UpsertActivity(ctx, models.Activity{
		ID: "future", UserID: u.ID, Day: "2099-01-01", Completed: 0, Total: 9,
		CreatedAt: testNow, UpdatedAt: testNow,
	})
	require.NoError(t, err)

	for _, opts := range []StatsOptions{{WindowDays: 30}, {}} {
		summary, err := env.stats.Summary(ctx, u.ID, opts)
		require.NoError(t, err)
		assert.Equal(t, 100, summary.Completion, "window %d", opts.WindowDays)
		assert.Equal(t, 1, summary.CurrentStreak)
	}
}

func TestSummaryYesterdayAnchor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := signup(t, env, "a@example.com")

	_, _, err := env.ledger.Upsert(ctx, u.ID, "2024-03-14", 0, 1)
	require.NoError(t, err)
	_, _, err = env.ledger.Upsert(ctx, u.ID, "2024-03-15", 1, 1)
	require.NoError(t, err)

	summary, err := env.stats.Summary(ctx, u.ID, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CurrentStreak)
}

func TestSnapshotSingleRow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := signup(t, env, "a@example.com")

	_, err := env.stats.Latest(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := env.stats.Snapshot(ctx, u.ID, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CurrentStreak)

	_, _, err = env.ledger.Upsert(ctx, u.ID, "2024-03-15", 1, 1)
	require.NoError(t, err)

	second, err := env.stats.Snapshot(ctx, u.ID, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, second.CurrentStreak)
	assert.Equal(t, 100, second.Completion)

	latest, err := env.stats.Latest(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 1, latest.LongestStreak)
}

func TestTotalDaysTrackedFromUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	u := models.User{
		ID:           "old-user",
		Email:        "old@example.com",
		PasswordHash: "x",
		CreatedAt:    testNow.AddDate(0, 0, -10),
	}
	require.NoError(t, env.store.CreateUser(ctx, u))

	summary, err := env.stats.Summary(ctx, u.ID, StatsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalDaysTracked)
}

var _ StatsStore = database.Service(nil)
