package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/config"
	"github.com/terassyi/krn08/internal/terminal"
)

const outputJSON = "json"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configDir string
	logLevel  string
	noColor   bool
	delay     string
}

var globalOpts globalOptions

var rootCmd = &cobra.Command{
	Use:   "krn08",
	Short: "Windows system utility dashboard (simulated)",
	Long: `KRN-08 is a mockup of a Windows system-utility dashboard.

Every action is simulated: a timed burst of canned command output appended
to an in-memory console. Nothing on the machine is modified.

Running krn08 without a subcommand opens the dashboard:
  krn08
  krn08 run install Google.Chrome Discord.Discord
  krn08 export Git.Git Microsoft.VisualStudioCode -o setup.ps1`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalOptions,
	RunE:              runDashboardCmd,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalOpts.configDir, "config", "c", config.DefaultConfigDir, "Configuration directory")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&globalOpts.delay, "delay", "", `Per-line command delay, overrides config (e.g. "100ms")`)

	rootCmd.AddCommand(
		versionCmd,
		dashboardCmd,
		runCmd,
		exportCmd,
		catalogCmd,
		configCmd,
		completionCmd,
	)
}

func applyGlobalOptions(_ *cobra.Command, _ []string) error {
	if globalOpts.noColor {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return nil
}

// environment is what every command needs after flags are parsed.
type environment struct {
	config  *config.Config
	catalog *catalog.Catalog
	level   slog.Level
	// clock replaces real sleeps in tests.
	clock terminal.Clock
}

// loadEnvironment loads config.cue and the embedded catalog. A --delay flag
// overrides the configured delay and goes through the same validation.
func loadEnvironment(opts globalOptions) (*environment, error) {
	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return nil, err
	}

	if opts.delay != "" {
		cfg.Delay = opts.delay
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	return &environment{
		config:  cfg,
		catalog: cat,
		level:   parseLogLevel(opts.logLevel),
	}, nil
}

// newTerminal creates the store and sequencer for one command.
func (env *environment) newTerminal(seeded bool) *terminal.Terminal {
	opts := []terminal.Option{terminal.WithDelay(env.config.SequencerDelay())}
	if env.clock != nil {
		opts = append(opts, terminal.WithClock(env.clock))
	}
	if seeded {
		return terminal.New(opts...)
	}
	return terminal.NewEmpty(opts...)
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
