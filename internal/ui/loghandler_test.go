package ui

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terassyi/krn08/internal/terminal"
)

func TestStoreLogHandler_WarnAndErrorAreAppended(t *testing.T) {
	t.Parallel()
	store := terminal.NewEmptyStore()
	logger := slog.New(NewStoreLogHandler(store, slog.LevelWarn))

	logger.Warn("first warning")
	logger.Error("first error")

	entries := store.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, terminal.KindWarning, entries[0].Kind)
	assert.Equal(t, "first warning", entries[0].Text)
	assert.Equal(t, terminal.KindError, entries[1].Kind)
	assert.Equal(t, "first error", entries[1].Text)
}

func TestStoreLogHandler_DebugAndInfoIgnoredAtWarnLevel(t *testing.T) {
	t.Parallel()
	store := terminal.NewEmptyStore()
	logger := slog.New(NewStoreLogHandler(store, slog.LevelWarn))

	logger.Debug("debug msg")
	logger.Info("info msg")

	assert.Zero(t, store.Len())
}

func TestStoreLogHandler_AllLevelsAtDebugLevel(t *testing.T) {
	t.Parallel()
	store := terminal.NewEmptyStore()
	logger := slog.New(NewStoreLogHandler(store, slog.LevelDebug))

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	kinds := make([]terminal.Kind, 0, 4)
	for _, e := range store.Entries() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []terminal.Kind{terminal.KindInfo, terminal.KindInfo, terminal.KindWarning, terminal.KindError}, kinds)
}

func TestStoreLogHandler_AttrsIncludedInText(t *testing.T) {
	t.Parallel()
	store := terminal.NewEmptyStore()
	logger := slog.New(NewStoreLogHandler(store, slog.LevelWarn))

	logger.Warn("release check skipped", "version", "dev", "error", "not a semantic version")

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Text, "release check skipped")
	assert.Contains(t, entries[0].Text, `version="dev"`)
	assert.Contains(t, entries[0].Text, "not a semantic version")
}

func TestStoreLogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()
	store := terminal.NewEmptyStore()
	handler := NewStoreLogHandler(store, slog.LevelWarn)
	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "actions")}).WithGroup("winget"))

	logger.Warn("source rejected", "url", "ftp://example.com")

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Text, `component="actions"`)
	assert.Contains(t, entries[0].Text, "winget.url")
}
