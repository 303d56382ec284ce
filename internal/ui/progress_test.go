package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terassyi/krn08/internal/terminal"
)

// newNonTTYProgressManager creates a ProgressManager that behaves as non-TTY for testing.
func newNonTTYProgressManager(w *bytes.Buffer) *ProgressManager {
	return &ProgressManager{
		w:     w,
		isTTY: false,
		style: NewStyle(),
	}
}

func appendEvent(text string, kind terminal.Kind) terminal.Event {
	return terminal.Event{
		Type:  terminal.EventAppend,
		Entry: terminal.Entry{ID: text, Text: text, Kind: kind},
	}
}

func disableColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestProgressManager_PrintsCommandRun(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	pm := newNonTTYProgressManager(&buf)
	results := &RunResults{}

	for _, ev := range []terminal.Event{
		appendEvent("> winget upgrade", terminal.KindCommand),
		appendEvent("Checking for package updates...", terminal.KindInfo),
		appendEvent("No updates found.", terminal.KindInfo),
		appendEvent(terminal.DoneText, terminal.KindSuccess),
	} {
		pm.HandleEvent(ev, results)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "> winget upgrade", lines[0])
	assert.Equal(t, "    Checking for package updates...", lines[1])
	assert.Equal(t, "✓ > Done.", lines[3])

	assert.Equal(t, RunResults{Commands: 1, Lines: 2}, *results)
}

func TestProgressManager_CountsWarningsAndErrors(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	pm := newNonTTYProgressManager(&buf)
	results := &RunResults{}

	pm.HandleEvent(appendEvent("disk almost full", terminal.KindWarning), results)
	pm.HandleEvent(appendEvent("release check failed", terminal.KindError), results)
	pm.HandleEvent(appendEvent("ready", terminal.KindSuccess), results)

	assert.Equal(t, RunResults{Lines: 3, Warnings: 1, Errors: 1}, *results)
	assert.Contains(t, buf.String(), "⚠ disk almost full")
	assert.Contains(t, buf.String(), "✗ release check failed")
	assert.Contains(t, buf.String(), "✓ ready")
}

func TestProgressManager_IgnoresNonAppendEvents(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	pm := newNonTTYProgressManager(&buf)
	results := &RunResults{}

	pm.HandleEvent(terminal.Event{Type: terminal.EventClear}, results)
	pm.HandleEvent(terminal.Event{Type: terminal.EventVisibility, Visible: true}, results)

	assert.Empty(t, buf.String())
	assert.Equal(t, RunResults{}, *results)
}

func TestProgressManager_FromSequencer(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer
	pm := newNonTTYProgressManager(&buf)
	results := &RunResults{}

	store := terminal.NewEmptyStore()
	unsubscribe := store.Subscribe(func(ev terminal.Event) { pm.HandleEvent(ev, results) })
	defer unsubscribe()

	seq := terminal.NewSequencer(store, terminal.WithClock(terminal.ClockFunc(func(time.Duration) {})))
	seq.Run("Apply-Tweak -Id gamebar", []string{"Applying tweak: gamebar...", "Modifying Registry keys...", "Done."}, 0)

	assert.Equal(t, RunResults{Commands: 1, Lines: 3}, *results)
	assert.True(t, strings.HasPrefix(buf.String(), "> Apply-Tweak -Id gamebar\n"))
}

func TestPrintRunSummary(t *testing.T) {
	disableColor(t)

	tests := []struct {
		name     string
		results  RunResults
		title    string
		contains []string
		excludes []string
	}{
		{
			name:     "nothing ran",
			results:  RunResults{},
			contains: []string{"Nothing to run"},
			excludes: []string{"Summary:"},
		},
		{
			name:     "with toast",
			results:  RunResults{Commands: 2, Lines: 12},
			title:    "Installation Complete",
			contains: []string{"Summary:", "Commands: 2", "Lines:    12", "Installation Complete"},
			excludes: []string{"Warnings", "Errors"},
		},
		{
			name:     "with problems",
			results:  RunResults{Commands: 1, Lines: 2, Warnings: 1, Errors: 1},
			contains: []string{"Warnings: 1", "Errors:   1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintRunSummary(&buf, &tt.results, tt.title, "")
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
