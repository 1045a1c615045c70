package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
)

// EnvLevel is the environment variable consulted when no flag is given
const EnvLevel = "DEVPOOL_LOG_LEVEL"

// DefaultLevel is used when flag, env and config are all empty
const DefaultLevel = "info"

// SelectLevel picks the first non-empty level and reports where it came from
func SelectLevel(flagLevel, envLevel, configLevel string) (string, string) {
	if strings.TrimSpace(flagLevel) != "" {
		return flagLevel, "flag"
	}
	if strings.TrimSpace(envLevel) != "" {
		return envLevel, "env"
	}
	if strings.TrimSpace(configLevel) != "" {
		return configLevel, "config"
	}
	return DefaultLevel, "default"
}

// ParseLevel accepts slog level names, "warning", and numeric levels
func ParseLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

// CountingHandler forwards records and counts those at error level or above.
// Derived handlers share the counter.
type CountingHandler struct {
	next   slog.Handler
	errors *atomic.Int64
}

// NewCountingHandler wraps next
func NewCountingHandler(next slog.Handler) *CountingHandler {
	return &CountingHandler{next: next, errors: new(atomic.Int64)}
}

func (h *CountingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError || h.next.Enabled(ctx, level)
}

func (h *CountingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		h.errors.Add(1)
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *CountingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CountingHandler{next: h.next.WithAttrs(attrs), errors: h.errors}
}

func (h *CountingHandler) WithGroup(name string) slog.Handler {
	return &CountingHandler{next: h.next.WithGroup(name), errors: h.errors}
}

// Errors returns how many error records have been handled
func (h *CountingHandler) Errors() int64 {
	return h.errors.Load()
}

// New builds a text logger on w and returns its counting handler
func New(w io.Writer, level slog.Level) (*slog.Logger, *CountingHandler) {
	h := NewCountingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return slog.New(h), h
}
