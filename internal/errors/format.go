//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors for the terminal. Each error type gets a header
// line followed by an aligned block of labelled rows.
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	errorColor *color.Color
	codeColor  *color.Color
	valueColor *color.Color
	hintColor  *color.Color
	wantColor  *color.Color
	gotColor   *color.Color
	labelColor *color.Color
}

// NewFormatter creates a new Formatter.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}

	return &Formatter{
		NoColor:    noColor,
		Writer:     w,
		errorColor: color.New(color.FgRed, color.Bold),
		codeColor:  color.New(color.FgRed),
		valueColor: color.New(color.FgCyan),
		hintColor:  color.New(color.FgGreen),
		wantColor:  color.New(color.FgYellow),
		gotColor:   color.New(color.FgRed),
		labelColor: color.New(color.FgHiBlack),
	}
}

// block collects labelled rows and pads labels to a common width.
type block struct {
	f     *Formatter
	width int
	rows  [][2]string
}

func (f *Formatter) newBlock(width int) *block {
	return &block{f: f, width: width}
}

// add appends a row unless value is empty. c may be nil for plain text.
func (b *block) add(label, value string, c *color.Color) {
	if value == "" {
		return
	}
	if c != nil {
		value = c.Sprint(value)
	}
	b.rows = append(b.rows, [2]string{label, value})
}

func (b *block) writeTo(sb *strings.Builder) {
	if len(b.rows) == 0 {
		return
	}
	sb.WriteString("\n")
	for _, r := range b.rows {
		fmt.Fprintf(sb, "  %s%s\n", b.f.labelColor.Sprintf("%-*s", b.width, r[0]+":"), r[1])
	}
}

// Format formats an error for CLI display.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var configErr *ConfigError
	var valErr *ValidationError
	var baseErr *Error

	switch {
	case errors.As(err, &configErr):
		f.header(&sb, configErr.Base.Code, configErr.Base.Message)
		b := f.newBlock(7)
		b.add("File", location(configErr), f.valueColor)
		b.add("Field", configErr.Field, f.valueColor)
		b.writeTo(&sb)
		f.cause(&sb, configErr.Base.Cause)
		f.hint(&sb, configErr.Base.Hint)
	case errors.As(err, &valErr):
		f.header(&sb, valErr.Base.Code, valErr.Base.Message)
		b := f.newBlock(10)
		b.add("Field", valErr.Field, nil)
		b.add("Expected", valErr.Expected, f.wantColor)
		b.add("Got", valErr.Got, f.gotColor)
		b.writeTo(&sb)
		f.hint(&sb, valErr.Base.Hint)
	case errors.As(err, &baseErr):
		f.header(&sb, baseErr.Code, baseErr.Message)
		f.details(&sb, baseErr.Details)
		f.cause(&sb, baseErr.Cause)
		f.hint(&sb, baseErr.Hint)
	default:
		sb.WriteString(f.errorColor.Sprint("Error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatJSON formats an error as JSON.
func (f *Formatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return nil, nil
	}

	var configErr *ConfigError
	var valErr *ValidationError
	var baseErr *Error

	var v any
	switch {
	case errors.As(err, &configErr):
		v = configErr
	case errors.As(err, &valErr):
		v = valErr
	case errors.As(err, &baseErr):
		v = baseErr
	default:
		v = map[string]string{"error": err.Error()}
	}
	return json.MarshalIndent(v, "", "  ")
}

// header writes "Error [E101]: message", or "Error: message" without a code.
func (f *Formatter) header(sb *strings.Builder, code Code, message string) {
	sb.WriteString(f.errorColor.Sprint("Error"))
	if code != "" {
		sb.WriteString(" ")
		sb.WriteString(f.codeColor.Sprintf("[%s]", code))
	}
	sb.WriteString(f.errorColor.Sprint(": "))
	sb.WriteString(message)
	sb.WriteString("\n")
}

// location renders file[:line[:column]].
func location(err *ConfigError) string {
	if err.File == "" {
		return ""
	}
	loc := err.File
	if err.Line > 0 {
		loc += fmt.Sprintf(":%d", err.Line)
		if err.Column > 0 {
			loc += fmt.Sprintf(":%d", err.Column)
		}
	}
	return loc
}

// details writes the detail map in key order.
func (f *Formatter) details(sb *strings.Builder, details map[string]any) {
	if len(details) == 0 {
		return
	}
	width := 0
	for k := range details {
		width = max(width, len(k)+2)
	}
	b := f.newBlock(width)
	for _, k := range slices.Sorted(maps.Keys(details)) {
		b.add(k, fmt.Sprint(details[k]), nil)
	}
	b.writeTo(sb)
}

func (f *Formatter) cause(sb *strings.Builder, cause error) {
	if cause == nil {
		return
	}
	fmt.Fprintf(sb, "\n  %s%s\n", f.labelColor.Sprint("Cause: "), cause.Error())
}

// hint writes a possibly multi-line hint with continuation lines indented
// under the first.
func (f *Formatter) hint(sb *strings.Builder, hint string) {
	if hint == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(f.hintColor.Sprint("Hint: "))
	first, rest, _ := strings.Cut(hint, "\n")
	sb.WriteString(first)
	sb.WriteString("\n")
	for line := range strings.SplitSeq(rest, "\n") {
		if line == "" {
			continue
		}
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
