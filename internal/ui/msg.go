package ui

import (
	"time"

	"github.com/terassyi/krn08/internal/actions"
	"github.com/terassyi/krn08/internal/terminal"
)

// storeEventMsg wraps a terminal.Event as a Bubble Tea message.
type storeEventMsg struct {
	event terminal.Event
}

// actionDoneMsg signals that a page action has returned.
type actionDoneMsg struct {
	name   string
	result actions.Result
	err    error
}

// tickMsg blinks the prompt cursor and expires toasts.
type tickMsg time.Time
