//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "without cause",
			err: &Error{
				Category: CategoryCatalog,
				Code:     CodeCatalogLoad,
				Message:  "catalog is invalid",
			},
			expected: "catalog is invalid",
		},
		{
			name: "with cause",
			err: &Error{
				Category: CategoryExport,
				Code:     CodeExportFailed,
				Message:  "failed to write script",
				Cause:    errors.New("permission denied"),
			},
			expected: "failed to write script: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("starting dashboard: %w", ErrTerminalMissing)
	assert.ErrorIs(t, wrapped, ErrTerminalMissing)
	assert.ErrorIs(t, wrapped, &Error{Code: CodeTerminalMissing})
	assert.NotErrorIs(t, wrapped, &Error{Code: CodeCatalogLoad})

	byMessage := New(CategoryConfig, "boom")
	assert.ErrorIs(t, byMessage, New(CategoryConfig, "boom"))
	assert.NotErrorIs(t, byMessage, New(CategoryCatalog, "boom"))
}

func TestError_WithMethods(t *testing.T) {
	t.Parallel()

	err := New(CategoryConfig, "test error")

	_ = err.WithHint("try this").
		WithCode(CodeConfigInvalid).
		WithDetail("key", "value")

	assert.Equal(t, "try this", err.Hint)
	assert.Equal(t, CodeConfigInvalid, err.Code)
	assert.Equal(t, "value", err.Details["key"])
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	t.Run("parse", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("expected string")
		err := NewConfigError("config.cue", "failed to load config", cause).WithLocation(3, 7)

		assert.Equal(t, CodeConfigParse, err.Base.Code)
		assert.Equal(t, "config.cue", err.File)
		assert.Equal(t, 3, err.Line)
		assert.Equal(t, 7, err.Column)
		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, &ConfigError{Base: Error{Code: CodeConfigParse}})
	})

	t.Run("invalid field", func(t *testing.T) {
		t.Parallel()

		err := NewInvalidConfigError("wingetSource", "source must be an http(s) URL")

		assert.Equal(t, CodeConfigInvalid, err.Base.Code)
		assert.Equal(t, "wingetSource", err.Field)
		assert.Nil(t, err.Unwrap())
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("run", "action", "one of optimize, install", "reboot")

	assert.Equal(t, CodeValidationFailed, err.Base.Code)
	assert.Equal(t, "run", err.Item)
	assert.Equal(t, "reboot", err.Got)

	unknown := NewUnknownItemError("package", "Foo.Bar")
	assert.Equal(t, CodeUnknownItem, unknown.Base.Code)
	assert.Equal(t, `unknown package "Foo.Bar"`, unknown.Error())
	assert.Equal(t, "Run 'krn08 catalog' to list every valid package.", unknown.Base.Hint)
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter(nil, true)

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil",
			err:      nil,
			contains: nil,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			contains: []string{"Error: boom"},
		},
		{
			name:     "base error with hint",
			err:      ErrTerminalMissing,
			contains: []string{"Error [E301]: terminal is not configured", "Hint: Attach a terminal"},
		},
		{
			name: "config error",
			err:  NewConfigError("/tmp/config.cue", "failed to load config", errors.New("bad")).WithLocation(2, 4),
			contains: []string{
				"Error [E101]: failed to load config",
				"File:  /tmp/config.cue:2:4",
				"Cause: bad",
			},
		},
		{
			name: "base error with details",
			err: Wrap(CategoryExport, "failed to write installer script", errors.New("denied")).
				WithCode(CodeExportFailed).
				WithDetail("path", "/tmp/install_packages.ps1"),
			contains: []string{
				"Error [E501]: failed to write installer script",
				"path: /tmp/install_packages.ps1",
				"Cause: denied",
			},
		},
		{
			name: "validation error",
			err:  NewValidationError("run", "action", "optimize", "reboot"),
			contains: []string{
				"Error [E401]: validation failed for run",
				"Expected: optimize",
				"Got:      reboot",
			},
		},
		{
			name:     "wrapped validation error",
			err:      fmt.Errorf("install: %w", NewUnknownItemError("package", "x")),
			contains: []string{"Error [E402]", "Hint: Run 'krn08 catalog'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := f.Format(tt.err)
			if tt.err == nil {
				assert.Empty(t, out)
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestFormatter_FormatJSON(t *testing.T) {
	f := NewFormatter(nil, true)

	data, err := f.FormatJSON(NewInvalidConfigError("delay", "delay must be positive"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "delay", decoded["field"])
	base, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(CodeConfigInvalid), base["code"])

	data, err = f.FormatJSON(errors.New("plain"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"plain"}`, string(data))
}
