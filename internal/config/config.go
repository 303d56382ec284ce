// Package config loads krn08 settings from config.cue.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	krnerrors "github.com/terassyi/krn08/internal/errors"
)

const (
	DefaultConfigDir = "~/.config/krn08"
	ConfigFileName   = "config.cue"
	DefaultDelay     = "500ms"
)

//go:embed schema.cue
var schemaSource string

// Config holds the settings shown on the Config page.
type Config struct {
	// CheckUpdates runs the release check when the dashboard starts.
	CheckUpdates bool `json:"checkUpdates"`
	// DarkMode is always on; the setting is displayed locked.
	DarkMode bool `json:"darkMode"`
	// ExpertMode shows risky tweaks.
	ExpertMode bool `json:"expertMode"`
	// WingetSource is a custom winget source URL.
	WingetSource string `json:"wingetSource,omitempty"`
	// Delay is the per-line delay of simulated commands, e.g. "500ms".
	Delay string `json:"delay"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CheckUpdates: true,
		DarkMode:     true,
		Delay:        DefaultDelay,
	}
}

// LoadConfig loads configuration from the config directory.
// Returns the default config if config.cue doesn't exist or has no config block.
func LoadConfig(configDir string) (*Config, error) {
	dir, err := ExpandHome(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config directory: %w", err)
	}
	configPath := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{ConfigFileName}, &load.Config{
		Dir: dir,
	})
	if len(instances) == 0 {
		return DefaultConfig(), nil
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, cueConfigError(configPath, "failed to load config.cue", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if value.Err() != nil {
		return nil, cueConfigError(configPath, "failed to build config.cue", value.Err())
	}

	configValue := value.LookupPath(cue.ParsePath("config"))
	if !configValue.Exists() {
		return DefaultConfig(), nil
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", schema.Err())
	}
	configValue = schema.LookupPath(cue.ParsePath("#Config")).Unify(configValue)
	if err := configValue.Validate(cue.Concrete(true)); err != nil {
		return nil, cueConfigError(configPath, "invalid config block", err)
	}

	cfg := DefaultConfig()
	jsonBytes, err := configValue.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		if ce, ok := err.(*krnerrors.ConfigError); ok {
			ce.File = configPath
		}
		return nil, err
	}
	return cfg, nil
}

// cueConfigError converts a CUE error into a ConfigError at its first position.
func cueConfigError(file, message string, err error) *krnerrors.ConfigError {
	ce := krnerrors.NewConfigError(file, message, err)
	var fallback token.Pos
	for _, e := range cueerrors.Errors(err) {
		for _, pos := range append([]token.Pos{e.Position()}, e.InputPositions()...) {
			if !pos.IsValid() {
				continue
			}
			if pos.Filename() == file {
				return ce.WithLocation(pos.Line(), pos.Column())
			}
			if !fallback.IsValid() {
				fallback = pos
			}
		}
	}
	if fallback.IsValid() {
		ce.WithLocation(fallback.Line(), fallback.Column())
	}
	return ce
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	d, err := time.ParseDuration(c.Delay)
	if err != nil || d <= 0 {
		return krnerrors.NewInvalidConfigError("delay", fmt.Sprintf("delay must be a positive duration, got %q", c.Delay)).
			WithHint(`Use a Go duration such as "500ms" or "1s".`)
	}

	if c.WingetSource != "" {
		if err := ValidateSource(c.WingetSource); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that source is an absolute http(s) URL.
func ValidateSource(source string) error {
	u, err := url.Parse(source)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return krnerrors.NewInvalidConfigError("wingetSource", fmt.Sprintf("winget source must be an http(s) URL, got %q", source)).
			WithHint("Example: https://winget.azureedge.net/cache")
	}
	return nil
}

// SequencerDelay returns Delay as a duration, falling back to the default.
func (c *Config) SequencerDelay() time.Duration {
	d, err := time.ParseDuration(c.Delay)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultDelay)
	}
	return d
}

// ToCue generates CUE content from Config.
func (c *Config) ToCue() ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(map[string]any{
		"config": c,
	})
	if v.Err() != nil {
		return nil, fmt.Errorf("failed to encode config: %w", v.Err())
	}

	b, err := format.Node(v.Syntax())
	if err != nil {
		return nil, fmt.Errorf("failed to format config: %w", err)
	}

	return append([]byte("package krn08\n\n"), b...), nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(p string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[2:]), nil
	}
	if p == "~" {
		return os.UserHomeDir()
	}
	return p, nil
}
