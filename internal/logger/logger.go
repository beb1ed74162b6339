package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string
	File   string
	Prefix string
}

// New builds a charmbracelet logger writing to stderr and, when File is set,
// to a rotating log file as well.
func New(cfg Config) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var writer io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	return log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          cfg.Prefix,
	}), nil
}

// Init builds the logger and installs it as the slog default, so call sites
// can keep using log/slog.
func Init(cfg Config) (*log.Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(l))
	log.SetDefault(l)
	return l, nil
}
