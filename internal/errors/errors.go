// Package errors provides structured error types for krn08.
// Errors carry a category, a machine-readable code and an optional hint so
// that the CLI can render them for humans or as JSON.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// Category represents the classification of an error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryCatalog    Category = "catalog"
	CategoryTerminal   Category = "terminal"
	CategoryValidation Category = "validation"
	CategoryExport     Category = "export"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Config errors (E1xx)
	CodeConfigParse   Code = "E101"
	CodeConfigInvalid Code = "E102"

	// Catalog errors (E2xx)
	CodeCatalogLoad Code = "E201"

	// Terminal errors (E3xx)
	CodeTerminalMissing Code = "E301"

	// Validation errors (E4xx)
	CodeValidationFailed Code = "E401"
	CodeUnknownItem      Code = "E402"

	// Export errors (E5xx)
	CodeExportFailed Code = "E501"
)

// Error is the base error type for krn08.
type Error struct {
	// Category classifies the error type.
	Category Category `json:"category"`

	// Code is a machine-readable error code.
	Code Code `json:"code,omitempty"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Details contains additional context information.
	Details map[string]any `json:"details,omitempty"`

	// Hint provides actionable advice for the user.
	Hint string `json:"hint,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error.
// Errors with codes match by code, otherwise by category and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Category == t.Category && e.Message == t.Message
}

// WithHint sets the hint and returns the error for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithCode sets the code and returns the error for chaining.
func (e *Error) WithCode(code Code) *Error {
	e.Code = code
	return e
}

// WithDetail adds a detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given category and message.
func New(category Category, message string) *Error {
	return &Error{
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category Category, message string, cause error) *Error {
	return &Error{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// ErrTerminalMissing is returned when a collaborator asks for the terminal
// outside of a context that carries one.
var ErrTerminalMissing = &Error{
	Category: CategoryTerminal,
	Code:     CodeTerminalMissing,
	Message:  "terminal is not configured",
	Hint:     "Attach a terminal with terminal.NewContext before starting the UI.",
}
