// Package logger provides Project Neon's structured logging.
//
// It is a thin registry over log/slog, keyed by subsystem name ("relay",
// "host", "client", ...), with per-subsystem level control via the
// NEON_LOG_LEVEL environment variable and an output format switch via
// NEON_LOG_FORMAT.
//
// Usage:
//
//	var log = logger.Logger("relay")
//	log.Info("session registered", "session", sessionID, "host", addr)
//
// NEON_LOG_LEVEL accepts a comma-separated list of subsystem=level pairs
// with an optional trailing bare level used as the default, e.g.
// "relay=debug,info" sets relay to debug and everything else to info.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	loggers  sync.Map // map[string]*slog.Logger
	handlers sync.Map // map[string]*slog.LevelVar
)

// Logger returns the Logger for subsystem, creating it on first use. Repeat
// calls for the same subsystem return the same instance.
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(levelForSubsystem(subsystem))

	handler := newHandler(levelVar)
	log := slog.New(handler).With("subsystem", subsystem)

	actual, _ := loggers.LoadOrStore(subsystem, log)
	handlers.Store(subsystem, levelVar)
	return actual.(*slog.Logger)
}

// SetLevel adjusts subsystem's level at runtime without recreating its
// Logger.
func SetLevel(subsystem string, level slog.Level) {
	if v, ok := handlers.Load(subsystem); ok {
		v.(*slog.LevelVar).Set(level)
	}
}

// Discard returns a Logger that drops everything written to it, for use in
// tests that don't want log output interleaved with test results.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newHandler(level *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(os.Getenv("NEON_LOG_FORMAT"), "json") {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// levelForSubsystem parses NEON_LOG_LEVEL and returns the level that applies
// to subsystem, falling back to slog.LevelInfo if unset or unparsable.
func levelForSubsystem(subsystem string) slog.Level {
	spec := os.Getenv("NEON_LOG_LEVEL")
	if spec == "" {
		return slog.LevelInfo
	}

	defaultLevel := slog.LevelInfo
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, level, hasSubsystem := strings.Cut(part, "=")
		if !hasSubsystem {
			if lvl, ok := parseLevel(name); ok {
				defaultLevel = lvl
			}
			continue
		}
		if name == subsystem {
			if lvl, ok := parseLevel(level); ok {
				return lvl
			}
		}
	}
	return defaultLevel
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
