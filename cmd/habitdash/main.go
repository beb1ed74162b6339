package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"habiterr/internal/config"
	"habiterr/internal/dashboard"
	"habiterr/internal/database"
	"habiterr/internal/logger"
	"habiterr/internal/services"
)

type userIDKey struct{}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, Prefix: "habitdash"}); err != nil {
		log.Fatal("could not configure logging", "err", err)
	}

	db, err := database.New(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		log.Fatal("could not open database", "err", err)
	}
	defer db.Close()

	cal := services.NewCalendar(cfg.Location())
	auth := services.NewAuthService(db, cfg.SessionTTL)
	dash := dashboard.NewService(
		services.NewHabitRegistry(db, cal),
		services.NewActivityLedger(db, cal),
		services.NewStatsService(db, cal, services.StatsOptions{WindowDays: cfg.StatsWindowDays}),
	)

	s, err := wish.NewServer(
		wish.WithAddress(cfg.SSHAddr),
		wish.WithHostKeyPath(cfg.SSHHostKey),
		// The ssh username is the account email.
		wish.WithPasswordAuth(func(ctx ssh.Context, password string) bool {
			u, err := auth.VerifyPassword(ctx, ctx.User(), password)
			if err != nil {
				log.Warn("ssh login failed", "user", ctx.User(), "err", err)
				return false
			}
			ctx.SetValue(userIDKey{}, u.ID)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler(dash)),
			activeterm.Middleware(), // Bubble Tea apps usually require a PTY.
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal("Could not create server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "addr", cfg.SSHAddr)
	go func() {
		if err = s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			done <- nil
		}
	}()

	<-done
	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer func() { cancel() }()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

// teaHandler builds a model per session. Styles come from the session's
// renderer so colours match the client's terminal, not the server's.
func teaHandler(dash dashClient) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		// This should never fail, as we are using the activeterm middleware.
		pty, _, _ := s.Pty()
		userID, _ := s.Context().Value(userIDKey{}).(string)

		renderer := bubbletea.MakeRenderer(s)
		m := newModel(dash, userID, pty.Window.Width, pty.Window.Height, renderer)
		return m, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
