package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"habiterr/internal/config"
	"habiterr/internal/database"
	"habiterr/internal/logger"
	"habiterr/internal/server"
)

func gracefulShutdown(srv *http.Server, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}
	done <- struct{}{}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, Prefix: "api"}); err != nil {
		log.Fatal("could not configure logging", "err", err)
	}

	db, err := database.New(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		slog.Error("could not open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.NewServer(cfg, db)

	done := make(chan struct{}, 1)
	go gracefulShutdown(srv, done)

	slog.Info("starting server", "addr", srv.Addr, "driver", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server error", "err", err)
		os.Exit(1)
	}

	<-done
	slog.Info("graceful shutdown complete")
}
