package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terassyi/krn08/internal/terminal"
)

// appender is the part of terminal.Store the log handler writes to.
type appender interface {
	Append(text string, kind terminal.Kind) terminal.Entry
}

// StoreLogHandler is a slog.Handler that appends log records to the log
// store, so they show up in the dashboard console instead of corrupting the
// alt screen. Only records at or above the configured level are appended.
type StoreLogHandler struct {
	target appender
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewStoreLogHandler creates a handler that appends to target.
func NewStoreLogHandler(target appender, level slog.Level) *StoreLogHandler {
	return &StoreLogHandler{
		target: target,
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *StoreLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats the record and appends it as one entry.
func (h *StoreLogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%q", h.qualifiedKey(a.Key), a.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%q", h.qualifiedKey(a.Key), a.Value)
		return true
	})

	h.target.Append(b.String(), levelKind(r.Level))
	return nil
}

// WithAttrs returns a new handler with the given attributes.
func (h *StoreLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &StoreLogHandler{
		target: h.target,
		level:  h.level,
		attrs:  newAttrs,
		group:  h.group,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *StoreLogHandler) WithGroup(name string) slog.Handler {
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &StoreLogHandler{
		target: h.target,
		level:  h.level,
		attrs:  h.attrs,
		group:  newGroup,
	}
}

func (h *StoreLogHandler) qualifiedKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

// levelKind maps a slog level to the entry kind it is displayed as.
func levelKind(l slog.Level) terminal.Kind {
	switch {
	case l >= slog.LevelError:
		return terminal.KindError
	case l >= slog.LevelWarn:
		return terminal.KindWarning
	default:
		return terminal.KindInfo
	}
}
