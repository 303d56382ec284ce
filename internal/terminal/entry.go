// Package terminal implements the simulated console behind the dashboard:
// an append-only log store with observers, and a sequencer that turns one
// simulated command into a timed burst of entries.
package terminal

import "time"

// Kind is the display category of an entry. It has no effect on sequencing.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
	KindCommand Kind = "command"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindInfo, KindSuccess, KindWarning, KindError, KindCommand}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindSuccess, KindWarning, KindError, KindCommand:
		return true
	default:
		return false
	}
}

// Entry is one line of simulated console output. Entries are values and are
// never modified after the store creates them.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// seedLines is the boot banner every session starts with.
var seedLines = []struct {
	text string
	kind Kind
}{
	{"> Initializing KRN-08 environment...", KindInfo},
	{"> Loading modules... [Done]", KindInfo},
	{"> Checking system requirements... [Win 11 23H2 Detected]", KindInfo},
	{"> Ready for commands.", KindSuccess},
}
