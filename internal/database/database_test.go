package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habiterr/internal/models"
)

func setupTestStore(t *testing.T) Service {
	t.Helper()
	s, err := New("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s Service, email string) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createTestHabit(t *testing.T, s Service, userID, name string) models.Habit {
	t.Helper()
	now := time.Now()
	h := models.Habit{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		RepsPerDay: 1,
		Icon:       models.IconStar,
		Color:      models.DefaultColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateHabit(context.Background(), h))
	return h
}

func TestRebind(t *testing.T) {
	pg := &service{driver: "postgres"}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &service{driver: "sqlite3"}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestHealth(t *testing.T) {
	s := setupTestStore(t)
	health := s.Health()
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, "sqlite3", health["driver"])
}

func TestInitIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Init())
}

func TestUserDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "a@example.com")

	err := s.CreateUser(ctx, models.User{
		ID: uuid.NewString(), Email: "a@example.com", PasswordHash: "x", CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Now()

	require.NoError(t, s.CreateSession(ctx, models.Session{Token: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, s.CreateSession(ctx, models.Session{Token: "stale", UserID: u.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}))

	n, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sess, err := s.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)

	_, err = s.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteSession(ctx, "live"))
	_, err = s.GetSession(ctx, "live")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHabitOwnership(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice@example.com")
	bob := createTestUser(t, s, "bob@example.com")

	read := createTestHabit(t, s, alice.ID, "Read")
	createTestHabit(t, s, bob.ID, "Run")

	habits, err := s.ListHabits(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name)

	_, err = s.GetHabit(ctx, bob.ID, read.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stolen := read
	stolen.UserID = bob.ID
	stolen.Name = "Mine now"
	assert.ErrorIs(t, s.UpdateHabit(ctx, stolen), ErrNotFound)

	_, err = s.DeleteHabit(ctx, bob.ID, read.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.DeleteHabit(ctx, alice.ID, read.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.DeleteHabit(ctx, alice.ID, read.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyActivityToggle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	day := "2024-03-01"

	toggle := func(done bool, total int) models.Activity {
		a, err := s.ApplyActivityToggle(ctx, ActivityToggle{
			ID: uuid.NewString(), UserID: u.ID, Day: day, Done: done, Total: total, Now: time.Now(),
		})
		require.NoError(t, err)
		return a
	}

	// undone on a missing row creates it at zero
	a := toggle(false, 3)
	assert.Equal(t, 0, a.Completed)
	assert.Equal(t, 3, a.Total)

	a = toggle(true, 3)
	assert.Equal(t, 1, a.Completed)
	a = toggle(true, 3)
	a = toggle(true, 3)
	a = toggle(true, 3)
	assert.Equal(t, 3, a.Completed, "clamped to total")

	a = toggle(false, 2)
	assert.Equal(t, 2, a.Completed, "clamped to the new total")
	assert.Equal(t, 2, a.Total)

	rows, err := s.ListActivity(ctx, u.ID, DayRange{From: day, To: day})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestApplyActivityToggleConcurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(done bool) {
			defer wg.Done()
			_, err := s.ApplyActivityToggle(ctx, ActivityToggle{
				ID: uuid.NewString(), UserID: u.ID, Day: "2024-03-01", Done: done, Total: 4, Now: time.Now(),
			})
			assert.NoError(t, err)
		}(i%3 != 0)
	}
	wg.Wait()

	rows, err := s.ListActivity(ctx, u.ID, DayRange{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.GreaterOrEqual(t, rows[0].Completed, 0)
	assert.LessOrEqual(t, rows[0].Completed, 4)
}

func TestToggleHabitCheck(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	other := createTestUser(t, s, "b@example.com")
	read := createTestHabit(t, s, u.ID, "Read")
	createTestHabit(t, s, u.ID, "Run")

	toggle := func(userID string) (models.HabitToggle, error) {
		return s.ToggleHabitCheck(ctx, HabitCheckToggle{
			UserID: userID, HabitID: read.ID, Day: "2024-03-01", ActivityID: uuid.NewString(), Now: time.Now(),
		})
	}

	res, err := toggle(u.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.Activity.Completed)
	assert.Equal(t, 2, res.Activity.Total)

	checked, err := s.CheckedHabits(ctx, u.ID, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, checked[read.ID])

	days, err := s.HabitCheckDays(ctx, u.ID, read.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01"}, days)

	res, err = toggle(u.ID)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Activity.Completed)

	_, err = toggle(other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteHabitKeepsActivity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	h := createTestHabit(t, s, u.ID, "Read")

	_, err := s.ToggleHabitCheck(ctx, HabitCheckToggle{
		UserID: u.ID, HabitID: h.ID, Day: "2024-03-01", ActivityID: uuid.NewString(), Now: time.Now(),
	})
	require.NoError(t, err)

	_, err = s.DeleteHabit(ctx, u.ID, h.ID)
	require.NoError(t, err)

	a, err := s.GetActivityByDay(ctx, u.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Completed)
	assert.Equal(t, 1, a.Total)

	checked, err := s.CheckedHabits(ctx, u.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, checked)
}

func TestToggleHabitCheckAfterDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	read := createTestHabit(t, s, u.ID, "Read")
	run := createTestHabit(t, s, u.ID, "Run")

	toggle := func(habitID string) models.HabitToggle {
		t.Helper()
		res, err := s.ToggleHabitCheck(ctx, HabitCheckToggle{
			UserID: u.ID, HabitID: habitID, Day: "2024-03-01", ActivityID: uuid.NewString(), Now: time.Now(),
		})
		require.NoError(t, err)
		return res
	}

	toggle(read.ID)
	res := toggle(run.ID)
	assert.Equal(t, 2, res.Activity.Completed)
	assert.Equal(t, 2, res.Activity.Total)

	_, err := s.DeleteHabit(ctx, u.ID, run.ID)
	require.NoError(t, err)

	res = toggle(read.ID)
	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.Activity.Completed)
	assert.Equal(t, 1, res.Activity.Total)

	res = toggle(read.ID)
	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.Activity.Completed)
}

func TestUpsertActivity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Now()

	first := models.Activity{ID: uuid.NewString(), UserID: u.ID, Day: "2024-03-01", Completed: 1, Total: 4, CreatedAt: now, UpdatedAt: now}
	saved, created, err := s.UpsertActivity(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID, saved.ID)

	second := first
	second.ID = uuid.NewString()
	second.Completed = 2
	saved, created, err = s.UpsertActivity(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, saved.ID)
	assert.Equal(t, 2, saved.Completed)
	assert.Equal(t, 4, saved.Total)
}

func TestListActivityOrderAndRange(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Now()

	for _, day := range []string{"2024-03-03", "2024-03-01", "2024-03-02", "2024-02-20"} {
		_, _, err := s.UpsertActivity(ctx, models.Activity{
			ID: uuid.NewString(), UserID: u.ID, Day: day, Completed: 1, Total: 1, CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
	}

	asc, err := s.ListActivity(ctx, u.ID, DayRange{From: "2024-03-01", To: "2024-03-03"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "2024-03-01", asc[0].Day)
	assert.Equal(t, "2024-03-03", asc[2].Day)

	desc, err := s.ListActivity(ctx, u.ID, DayRange{Descending: true})
	require.NoError(t, err)
	require.Len(t, desc, 4)
	assert.Equal(t, "2024-03-03", desc[0].Day)
	assert.Equal(t, "2024-02-20", desc[3].Day)
}

func TestUpdateAndDeleteActivity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	other := createTestUser(t, s, "b@example.com")
	now := time.Now()

	a, _, err := s.UpsertActivity(ctx, models.Activity{
		ID: uuid.NewString(), UserID: u.ID, Day: "2024-03-01", Completed: 1, Total: 4, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	b, _, err := s.UpsertActivity(ctx, models.Activity{
		ID: uuid.NewString(), UserID: u.ID, Day: "2024-03-02", Completed: 1, Total: 4, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	a.Completed = 2
	require.NoError(t, s.UpdateActivity(ctx, a))

	got, err := s.GetActivity(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Completed)

	b.Day = "2024-03-01"
	assert.ErrorIs(t, s.UpdateActivity(ctx, b), ErrDuplicate)

	assert.ErrorIs(t, s.DeleteActivity(ctx, other.ID, a.ID), ErrNotFound)
	require.NoError(t, s.DeleteActivity(ctx, u.ID, a.ID))
	_, err = s.GetActivity(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertStats(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Now()

	_, err := s.GetStats(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := s.UpsertStats(ctx, models.Stats{
		ID: uuid.NewString(), UserID: u.ID, CurrentStreak: 1, LongestStreak: 1, Completion: 50, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	second, err := s.UpsertStats(ctx, models.Stats{
		ID: uuid.NewString(), UserID: u.ID, CurrentStreak: 2, LongestStreak: 5, Completion: 75, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.GetStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	assert.Equal(t, 75, got.Completion)
}
