package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/terassyi/krn08/internal/actions"
	krnerrors "github.com/terassyi/krn08/internal/errors"
	"github.com/terassyi/krn08/internal/terminal"
	"github.com/terassyi/krn08/internal/ui"
)

var dashboardExportDir string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the dashboard",
	Long: `Open the interactive dashboard.

Keys:
  tab / shift+tab   switch page
  t                 show or hide the output console
  q                 quit`,
	Args: cobra.NoArgs,
	RunE: runDashboardCmd,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardExportDir, "export-dir", ".", "Directory the installer script is exported to")
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return krnerrors.New(krnerrors.CategoryTerminal, "the dashboard requires an interactive terminal").
			WithHint("Use 'krn08 run <action>' for plain output.")
	}

	env, err := loadEnvironment(globalOpts)
	if err != nil {
		return err
	}
	return runDashboard(cmd.Context(), cmd.OutOrStdout(), env, dashboardExportDir)
}

// runDashboard runs the Bubble Tea dashboard until the user quits.
func runDashboard(ctx context.Context, w io.Writer, env *environment, exportDir string) error {
	term := env.newTerminal(true)
	ctx = terminal.NewContext(ctx, term)

	runner, err := actions.FromContext(ctx, env.catalog,
		actions.WithVersion(ui.Version),
		actions.WithDelay(env.config.SequencerDelay()),
	)
	if err != nil {
		return err
	}

	model := ui.NewDashboardModel(ctx, ui.Options{
		Log:       term.Store,
		Actions:   runner,
		Catalog:   env.catalog,
		Config:    env.config,
		ExportDir: exportDir,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(w), tea.WithContext(ctx))

	// Route slog output into the console panel instead of stderr
	prevLogger := slog.Default()
	slog.SetDefault(slog.New(ui.NewStoreLogHandler(term.Store, env.level)))
	defer slog.SetDefault(prevLogger)

	reporter := ui.NewReporter(p)
	reporter.Attach(term.Store)
	defer reporter.Detach()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
