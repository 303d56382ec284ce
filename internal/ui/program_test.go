package ui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terassyi/krn08/internal/config"
	"github.com/terassyi/krn08/internal/script"
)

// sendWithin sends msgs to p in order and fails if the event loop stops
// accepting them.
func sendWithin(t *testing.T, p *tea.Program, msgs ...tea.Msg) {
	t.Helper()
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for _, msg := range msgs {
			p.Send(msg)
		}
	}()

	select {
	case <-sent:
	case <-time.After(3 * time.Second):
		t.Fatal("event loop stopped processing messages")
	}
}

// Not parallel: replaces the default slog logger.
func TestDashboard_ProgramKeepsRunningAfterStoreMutations(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CheckUpdates = false
	e := newTestEnv(t, cfg)

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(NewStoreLogHandler(e.store, slog.LevelDebug)))
	t.Cleanup(func() { slog.SetDefault(prevLogger) })

	p := tea.NewProgram(e.model,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	reporter := NewReporter(p)
	reporter.Attach(e.store)
	t.Cleanup(reporter.Detach)

	result := make(chan error, 1)
	go func() {
		_, err := p.Run()
		result <- err
	}()

	sendWithin(t, p,
		runeKey("t"), // hide console
		runeKey("c"), // clear console
		runeKey("t"), // show console
		keyTab,
		keySpace,
		runeKey("e"), // export logs at debug level from inside Update
		tea.KeyMsg{Type: tea.KeyShiftTab},
		runeKey("u"), // check updates
		keyDown,
	)
	sendWithin(t, p, tea.Quit())

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit")
	}

	_, err := os.Stat(filepath.Join(e.dir, script.DefaultFileName))
	require.NoError(t, err)
	for _, entry := range e.store.Entries() {
		assert.NotEqual(t, "> Initializing KRN-08 environment...", entry.Text)
	}
}
