// Package logger provides logging functionality.

package logger

import (
	"io"
	"os"
	"time"

	"nbgrader-validate/internal/config"

	"github.com/rs/zerolog"
)

// NewLog initializes a logger.
func NewLog(cfg *config.Config) *zerolog.Logger {
	return NewLogWithWriter(cfg, os.Stdout)
}

// NewLogWithWriter initializes a logger writing to out.
func NewLogWithWriter(cfg *config.Config, out io.Writer) *zerolog.Logger {
	var level zerolog.Level
	switch cfg.Logger.Level {
	case 0:
		level = zerolog.DebugLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.WarnLevel
	case 3:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	w := out
	if cfg.Logger.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out}
	}
	Logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return &Logger
}
