package ui

import (
	"github.com/fatih/color"
	"github.com/terassyi/krn08/internal/terminal"
)

// Style holds common output styling for CLI commands.
type Style struct {
	SuccessMark string
	FailMark    string
	WarnMark    string
	CommandMark string
	Header      *color.Color
	Path        *color.Color
	Success     *color.Color
	Warning     *color.Color
	Error       *color.Color
	Command     *color.Color
	Muted       *color.Color
}

// NewStyle creates a new Style with standard colors.
func NewStyle() *Style {
	return &Style{
		SuccessMark: color.New(color.FgGreen).Sprint("✓"),
		FailMark:    color.New(color.FgRed).Sprint("✗"),
		WarnMark:    color.New(color.FgYellow).Sprint("⚠"),
		CommandMark: color.New(color.FgCyan).Sprint("$"),
		Header:      color.New(color.FgCyan, color.Bold),
		Path:        color.New(color.FgCyan),
		Success:     color.New(color.FgGreen, color.Bold),
		Warning:     color.New(color.FgYellow),
		Error:       color.New(color.FgRed),
		Command:     color.New(color.FgCyan, color.Bold),
		Muted:       color.New(color.FgHiBlack),
	}
}

// EntryColor returns the color an entry of kind k is printed in.
func (s *Style) EntryColor(k terminal.Kind) *color.Color {
	switch k {
	case terminal.KindSuccess:
		return s.Success
	case terminal.KindWarning:
		return s.Warning
	case terminal.KindError:
		return s.Error
	case terminal.KindCommand:
		return s.Command
	default:
		return color.New(color.Reset)
	}
}

// EntryMark returns the gutter mark for an entry of kind k.
func (s *Style) EntryMark(k terminal.Kind) string {
	switch k {
	case terminal.KindSuccess:
		return s.SuccessMark
	case terminal.KindWarning:
		return s.WarnMark
	case terminal.KindError:
		return s.FailMark
	case terminal.KindCommand:
		return s.CommandMark
	default:
		return " "
	}
}
