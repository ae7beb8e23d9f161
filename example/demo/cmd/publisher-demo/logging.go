package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// newLogger creates a slog.Logger backed by zerolog. Console mode writes human-readable lines,
// otherwise one JSON object per line.
func newLogger(out io.Writer, level slog.Level, console bool) *slog.Logger {
	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Stamp}
	}

	log := zerolog.New(out).With().Timestamp().Logger()

	return slog.New(zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}))
}
