package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/terassyi/krn08/internal/terminal"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// RunResults tracks what a headless run printed.
type RunResults struct {
	Commands int
	Lines    int
	Warnings int
	Errors   int
}

// ProgressManager prints store entries for `krn08 run`. On a TTY each
// command also gets a bar counting its output lines.
type ProgressManager struct {
	mu       sync.Mutex
	w        io.Writer
	isTTY    bool
	progress *mpb.Progress
	bar      *mpb.Bar
	style    *Style
}

// NewProgressManager creates a new progress manager.
func NewProgressManager(w io.Writer) *ProgressManager {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	pm := &ProgressManager{
		w:     w,
		isTTY: isTTY,
		style: NewStyle(),
	}

	if isTTY {
		pm.progress = mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	}

	return pm
}

// Wait waits for all progress to complete.
func (pm *ProgressManager) Wait() {
	if pm.progress != nil {
		pm.progress.Wait()
	}
}

// HandleEvent prints appended entries and counts them into results.
// Clear and visibility events have no headless rendering.
func (pm *ProgressManager) HandleEvent(event terminal.Event, results *RunResults) {
	if event.Type != terminal.EventAppend {
		return
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	e := event.Entry
	switch {
	case e.Kind == terminal.KindCommand:
		results.Commands++
		pm.startCommand(e.Text)
	case e.Kind == terminal.KindSuccess && e.Text == terminal.DoneText:
		pm.completeCommand()
	default:
		results.Lines++
		switch e.Kind {
		case terminal.KindWarning:
			results.Warnings++
		case terminal.KindError:
			results.Errors++
		}
		if pm.bar != nil {
			pm.bar.Increment()
		}
		pm.println(fmt.Sprintf("  %s %s", pm.style.EntryMark(e.Kind), pm.style.EntryColor(e.Kind).Sprint(e.Text)))
	}
}

func (pm *ProgressManager) startCommand(label string) {
	pm.println(pm.style.Command.Sprint(label))

	if !pm.isTTY {
		return
	}
	pm.bar = pm.progress.AddBar(0,
		mpb.BarFillerClearOnComplete(),
		mpb.PrependDecorators(
			decor.Name("  "+label, decor.WC{W: 40, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CurrentNoUnit("%d lines"),
			decor.OnComplete(decor.Name(""), " done"),
		),
	)
}

func (pm *ProgressManager) completeCommand() {
	if pm.bar != nil {
		pm.bar.SetTotal(pm.bar.Current(), true)
		pm.bar = nil
	}
	pm.println(fmt.Sprintf("%s %s", pm.style.SuccessMark, pm.style.Success.Sprint(terminal.DoneText)))
}

// println writes above the running bars on a TTY.
func (pm *ProgressManager) println(line string) {
	if pm.progress != nil {
		fmt.Fprintln(pm.progress, line)
		return
	}
	fmt.Fprintln(pm.w, line)
}

// PrintRunSummary prints the run summary and the toast of the action.
func PrintRunSummary(w io.Writer, results *RunResults, title, description string) {
	style := NewStyle()

	fmt.Fprintln(w)
	if results.Commands == 0 {
		fmt.Fprintf(w, "%s Nothing to run\n", style.SuccessMark)
		return
	}

	style.Header.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Commands: %d\n", results.Commands)
	fmt.Fprintf(w, "  Lines:    %d\n", results.Lines)
	if results.Warnings > 0 {
		fmt.Fprintf(w, "  %s Warnings: %d\n", style.WarnMark, results.Warnings)
	}
	if results.Errors > 0 {
		fmt.Fprintf(w, "  %s Errors:   %d\n", style.FailMark, results.Errors)
	}

	if title != "" {
		fmt.Fprintln(w)
		style.Success.Fprintln(w, title)
		if description != "" {
			fmt.Fprintln(w, description)
		}
	}
}
