//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// ConfigError represents a config.cue loading or validation error.
type ConfigError struct {
	Base Error `json:"error"`

	// File is the path to the configuration file.
	File string `json:"file,omitempty"`

	// Field is the config field at fault, if known.
	Field string `json:"field,omitempty"`

	// Line is the line number where the error occurred.
	Line int `json:"line,omitempty"`

	// Column is the column number where the error occurred.
	Column int `json:"column,omitempty"`
}

// NewConfigError creates a ConfigError for a file that could not be parsed.
func NewConfigError(file, message string, cause error) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeConfigParse,
			Message:  message,
			Cause:    cause,
		},
		File: file,
	}
}

// NewInvalidConfigError creates a ConfigError for a field with a bad value.
func NewInvalidConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeConfigInvalid,
			Message:  message,
		},
		Field: field,
	}
}

// WithLocation sets the line and column.
func (e *ConfigError) WithLocation(line, column int) *ConfigError {
	e.Line = line
	e.Column = column
	return e
}

// WithHint sets the hint on the base error.
func (e *ConfigError) WithHint(hint string) *ConfigError {
	e.Base.Hint = hint
	return e
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
