package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"habiterr/internal/config"
	"habiterr/internal/database"
	"habiterr/internal/services"
)

type appContext struct {
	ctx    context.Context
	out    io.Writer
	db     database.Service
	auth   *services.AuthService
	habits *services.HabitRegistry
	stats  *services.StatsService

	habitica func() (services.HabiticaSource, error)
}

func newAppContext(cfg config.Config, db database.Service, out io.Writer, opts ...services.AuthOption) *appContext {
	cal := services.NewCalendar(cfg.Location())
	return &appContext{
		ctx:    context.Background(),
		out:    out,
		db:     db,
		auth:   services.NewAuthService(db, cfg.SessionTTL, opts...),
		habits: services.NewHabitRegistry(db, cal),
		stats:  services.NewStatsService(db, cal, services.StatsOptions{WindowDays: cfg.StatsWindowDays}),
	}
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *appContext) error {
	if err := app.db.Init(); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "schema up to date")
	return nil
}

type UserAddCmd struct {
	Email    string `required:"" help:"Account email."`
	Name     string `help:"Display name."`
	Password string `required:"" help:"Password, at least 8 characters."`
}

func (c *UserAddCmd) Run(app *appContext) error {
	u, err := app.auth.CreateUser(app.ctx, c.Email, c.Password, c.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "created user %s (%s)\n", u.Email, u.ID)
	return nil
}

type StatsRebuildCmd struct {
	Email      string `required:"" help:"Account email."`
	WindowDays *int   `help:"Completion window in days; 0 uses all activity."`
}

func (c *StatsRebuildCmd) Run(app *appContext) error {
	u, err := app.auth.UserByEmail(app.ctx, c.Email)
	if err != nil {
		return fmt.Errorf("error finding user %q: %w", c.Email, err)
	}
	opts := app.stats.Defaults()
	if c.WindowDays != nil {
		opts.WindowDays = *c.WindowDays
	}
	st, err := app.stats.Snapshot(app.ctx, u.ID, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "current streak %d, longest streak %d, completion %d%%\n",
		st.CurrentStreak, st.LongestStreak, st.Completion)
	return nil
}

type StatsShowCmd struct {
	Email string `required:"" help:"Account email."`
}

func (c *StatsShowCmd) Run(app *appContext) error {
	u, err := app.auth.UserByEmail(app.ctx, c.Email)
	if err != nil {
		return fmt.Errorf("error finding user %q: %w", c.Email, err)
	}
	st, err := app.stats.Latest(app.ctx, u.ID)
	if err != nil {
		return fmt.Errorf("no snapshot for %q, run stats rebuild: %w", c.Email, err)
	}
	fmt.Fprintf(app.out, "snapshot %s: current streak %d, longest streak %d, completion %d%%\n",
		st.UpdatedAt.Format(time.RFC3339), st.CurrentStreak, st.LongestStreak, st.Completion)
	return nil
}

type ImportHabiticaCmd struct {
	Email  string `required:"" help:"Account to import into."`
	Dailys bool   `help:"Also import the dailys due today."`
}

func (c *ImportHabiticaCmd) Run(app *appContext) error {
	u, err := app.auth.UserByEmail(app.ctx, c.Email)
	if err != nil {
		return fmt.Errorf("error finding user %q: %w", c.Email, err)
	}
	source, err := app.habitica()
	if err != nil {
		return err
	}
	res, err := services.NewHabiticaImporter(source, app.habits).Import(app.ctx, u.ID, services.ImportOptions{Dailys: c.Dailys})
	if err != nil {
		return err
	}
	for _, h := range res.Created {
		fmt.Fprintf(app.out, "imported %s (%d/day)\n", h.Name, h.RepsPerDay)
	}
	fmt.Fprintf(app.out, "%d imported, %d skipped\n", len(res.Created), len(res.Skipped))
	return nil
}

type SessionsPurgeCmd struct{}

func (c *SessionsPurgeCmd) Run(app *appContext) error {
	n, err := app.auth.PurgeExpired(app.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "purged %d sessions\n", n)
	return nil
}
