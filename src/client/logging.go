package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/apimgr/hey/src/config"
	"github.com/apimgr/hey/src/paths"
)

// Log rotation limits
const (
	logMaxSizeMB  = 10
	logMaxBackups = 5
	logMaxAgeDays = 30
)

// parseLevel maps a level name to a slog level. Unknown names fall back
// to warn.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// newLogger builds a logger that appends JSON records to file and echoes
// the same records as text to echo. A nil file gives an echo-only logger.
func newLogger(file io.Writer, echo io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
	}
	if echo != nil {
		handlers = append(handlers, slog.NewTextHandler(echo, opts))
	}
	return slog.New(fanoutHandler(handlers))
}

// InitLogging points the default slog logger at the rotating log file
// and stdout. If the log file cannot be created, logging continues on
// stdout only and the error is returned.
func InitLogging(settings config.LogSettings) (io.Closer, error) {
	level := parseLevel(settings.Level)

	if err := paths.EnsureFile(settings.File); err != nil {
		slog.SetDefault(newLogger(nil, os.Stdout, level))
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   settings.File,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
	slog.SetDefault(newLogger(rotating, os.Stdout, level))
	return rotating, nil
}

// fanoutHandler sends every record to each handler that accepts its level
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}
