package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"habiterr/clients/habitica"
	"habiterr/internal/config"
	"habiterr/internal/database"
	"habiterr/internal/logger"
	"habiterr/internal/services"
)

type CLI struct {
	Migrate MigrateCmd `cmd:"" help:"Create or update the database schema."`
	User    struct {
		Add UserAddCmd `cmd:"" help:"Create a user account."`
	} `cmd:"" help:"Manage users."`
	Stats struct {
		Rebuild StatsRebuildCmd `cmd:"" help:"Recompute a user's stats snapshot from the ledger."`
		Show    StatsShowCmd    `cmd:"" help:"Print a user's stored stats snapshot."`
	} `cmd:"" help:"Manage stats snapshots."`
	Import struct {
		Habitica ImportHabiticaCmd `cmd:"" help:"Import habits, and optionally due dailys, from Habitica."`
	} `cmd:"" help:"Import habits from other trackers."`
	Sessions struct {
		Purge SessionsPurgeCmd `cmd:"" help:"Delete expired sessions."`
	} `cmd:"" help:"Manage sessions."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("habitctl"),
		kong.Description("Administrative commands for habiterr."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile, Prefix: "habitctl"}); err != nil {
		log.Fatal("could not configure logging", "err", err)
	}

	db, err := database.New(cfg.DBDriver, cfg.DBURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	app := newAppContext(cfg, db, os.Stdout)
	app.habitica = func() (services.HabiticaSource, error) {
		if cfg.HabiticaAPIUser == "" || cfg.HabiticaAPIKey == "" {
			return nil, fmt.Errorf("HABITICA_API_USER and HABITICA_API_KEY must be set")
		}
		return habitica.NewClient(cfg.HabiticaAPIUser, cfg.HabiticaAPIKey), nil
	}

	if err := ctx.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		db.Close()
		os.Exit(1)
	}
}
