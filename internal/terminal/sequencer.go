package terminal

import (
	"log/slog"
	"time"
)

const (
	// DefaultDelay is the pause before each output line and before the
	// completion marker.
	DefaultDelay = 500 * time.Millisecond

	// PromptMarker prefixes the command entry of every run.
	PromptMarker = "> "

	// DoneText is the final entry of every run.
	DoneText = "> Done."

	// NoDelay asks Run for zero pauses. Zero means "use the default".
	NoDelay time.Duration = -1
)

// Writer is the part of the store the sequencer drives.
type Writer interface {
	Append(text string, kind Kind) Entry
	SetVisible(open bool)
}

// Clock suspends the calling goroutine.
type Clock interface {
	Sleep(d time.Duration)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func(time.Duration)

// Sleep calls f(d).
func (f ClockFunc) Sleep(d time.Duration) { f(d) }

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Sequencer turns a simulated command into a timed burst of log entries.
type Sequencer struct {
	w     Writer
	clock Clock
	delay time.Duration
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Sequencer) {
		s.clock = c
	}
}

// WithDelay sets the delay used when Run is called with a non-positive delay.
func WithDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.delay = d
		}
	}
}

// NewSequencer creates a Sequencer writing to w.
func NewSequencer(w Writer, opts ...Option) *Sequencer {
	s := &Sequencer{
		w:     w,
		clock: realClock{},
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the default per-line delay.
func (s *Sequencer) Delay() time.Duration {
	return s.delay
}

// Run opens the panel, appends "> label" as a command entry, then each line
// after delay, then "> Done." after one more delay. NoDelay runs without
// pausing; any other non-positive delay uses the sequencer default. Run blocks until the last entry is appended and
// cannot be cancelled; hiding the panel meanwhile does not stop it.
//
// Callers wanting ordered output across commands must wait for one Run to
// return before starting the next.
func (s *Sequencer) Run(label string, lines []string, delay time.Duration) {
	switch {
	case delay == NoDelay:
		delay = 0
	case delay <= 0:
		delay = s.delay
	}

	slog.Debug("simulating command", "label", label, "lines", len(lines), "delay", delay)

	s.w.SetVisible(true)
	s.w.Append(PromptMarker+label, KindCommand)

	for _, line := range lines {
		s.clock.Sleep(delay)
		s.w.Append(line, KindInfo)
	}

	s.clock.Sleep(delay)
	s.w.Append(DoneText, KindSuccess)
}
