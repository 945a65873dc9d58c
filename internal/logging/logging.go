// Package logging builds the application logger: pretty console output via
// charmbracelet/log on stderr plus JSON records appended to a log file.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// ParseLevel maps a level name to its slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns the application logger and a closer for the log file.
// An empty logFile disables the file handler.
func New(level, logFile string) (*slog.Logger, func() error, error) {
	lvl := ParseLevel(level)

	console := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.Level(lvl),
	})

	loggers := []*slog.Logger{slog.New(console)}
	closer := func() error { return nil }

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		loggers = append(loggers, slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl})))
		closer = f.Close
	}

	return Multi(loggers...), closer, nil
}
