//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// ValidationError represents a rejected user selection or argument.
type ValidationError struct {
	Base Error `json:"error"`

	// Item is the package, tweak or action that failed validation.
	Item string `json:"item,omitempty"`

	// Field is the field that failed validation.
	Field string `json:"field,omitempty"`

	// Expected describes what was expected.
	Expected string `json:"expected,omitempty"`

	// Got describes what was received.
	Got string `json:"got,omitempty"`
}

// NewValidationError creates a ValidationError.
func NewValidationError(item, field, expected, got string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeValidationFailed,
			Message:  fmt.Sprintf("validation failed for %s", item),
		},
		Item:     item,
		Field:    field,
		Expected: expected,
		Got:      got,
	}
}

// NewUnknownItemError creates a ValidationError for an id missing from the catalog.
func NewUnknownItemError(kind, id string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeUnknownItem,
			Message:  fmt.Sprintf("unknown %s %q", kind, id),
			Hint:     fmt.Sprintf("Run 'krn08 catalog' to list every valid %s.", kind),
		},
		Item: id,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
