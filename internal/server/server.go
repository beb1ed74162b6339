package server

import (
	"fmt"
	"net/http"
	"time"

	"habiterr/internal/config"
	"habiterr/internal/database"
	"habiterr/internal/services"
)

const sessionCookie = "habiterr_session"

type Server struct {
	port         int
	cookieSecure bool
	sessionTTL   time.Duration

	db     database.Service
	auth   *services.AuthService
	habits *services.HabitRegistry
	ledger *services.ActivityLedger
	stats  *services.StatsService
}

type Option func(*options)

type options struct {
	cal      services.Calendar
	authOpts []services.AuthOption
}

// WithCalendar fixes the clock and timezone days are computed in.
func WithCalendar(cal services.Calendar) Option {
	return func(o *options) { o.cal = cal }
}

func WithAuthOptions(opts ...services.AuthOption) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, opts...) }
}

func New(cfg config.Config, db database.Service, opts ...Option) *Server {
	o := options{cal: services.NewCalendar(cfg.Location())}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		port:         cfg.Port,
		cookieSecure: cfg.CookieSecure,
		sessionTTL:   cfg.SessionTTL,

		db:     db,
		auth:   services.NewAuthService(db, cfg.SessionTTL, o.authOpts...),
		habits: services.NewHabitRegistry(db, o.cal),
		ledger: services.NewActivityLedger(db, o.cal),
		stats:  services.NewStatsService(db, o.cal, services.StatsOptions{WindowDays: cfg.StatsWindowDays}),
	}
}

func NewServer(cfg config.Config, db database.Service, opts ...Option) *http.Server {
	s := New(cfg, db, opts...)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
