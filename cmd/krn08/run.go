package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/terassyi/krn08/internal/actions"
	krnerrors "github.com/terassyi/krn08/internal/errors"
	"github.com/terassyi/krn08/internal/terminal"
	"github.com/terassyi/krn08/internal/ui"
)

// Action names accepted by `krn08 run`.
const (
	actionOptimize        = "optimize"
	actionCheckUpdates    = "check-updates"
	actionInstall         = "install"
	actionUninstall       = "uninstall"
	actionUpgradeAll      = "upgrade-all"
	actionTweaks          = "tweaks"
	actionRecommendations = "recommendations"
	actionSource          = "source"
	actionRelease         = "release"
)

var runActions = []string{
	actionOptimize,
	actionCheckUpdates,
	actionInstall,
	actionUninstall,
	actionUpgradeAll,
	actionTweaks,
	actionRecommendations,
	actionSource,
	actionRelease,
}

var runExpert bool

var runCmd = &cobra.Command{
	Use:   "run <action> [ids...]",
	Short: "Run one dashboard action without the TUI",
	Long: `Run one dashboard action and print the console output as it appears.

Actions:
  optimize                      Invoke-KrnOptimization
  check-updates                 winget upgrade
  install <package ids...>      winget install, one command per package
  uninstall <package ids...>    winget uninstall, one command per package
  upgrade-all                   winget upgrade --all
  tweaks [tweak ids...]         apply tweaks (default: the preselected ones)
  recommendations <ids...>      apply dashboard recommendations
  source <url>                  winget source update
  release                       check for a newer KRN-08 release

Examples:
  krn08 run install Google.Chrome Valve.Steam
  krn08 run tweaks restorepoint darkmode --delay 50ms
  krn08 run tweaks defender --expert`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: runActions,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(globalOpts)
		if err != nil {
			return err
		}
		expert := runExpert || env.config.ExpertMode
		return runAction(cmd.Context(), cmd.OutOrStdout(), env, args[0], args[1:], expert)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runExpert, "expert", false, "Allow risky tweaks (overrides config expertMode)")
}

// runAction runs one action headless. The action and the printer run in an
// errgroup: the action appends to the store, the printer drains the events.
func runAction(ctx context.Context, w io.Writer, env *environment, name string, ids []string, expert bool) error {
	prevLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.level})))
	defer slog.SetDefault(prevLogger)

	action, err := resolveAction(name, ids, expert, env)
	if err != nil {
		return err
	}

	term := env.newTerminal(false)
	runner := actions.NewRunner(term.Sequencer, term.Store, env.catalog,
		actions.WithVersion(ui.Version),
		actions.WithDelay(env.config.SequencerDelay()),
	)

	events := make(chan terminal.Event, 64)
	unsubscribe := term.Store.Subscribe(func(ev terminal.Event) {
		events <- ev
	})

	pm := ui.NewProgressManager(w)
	results := &ui.RunResults{}
	var res actions.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		defer unsubscribe()

		var err error
		res, err = action(gctx, runner)
		return err
	})
	g.Go(func() error {
		for ev := range events {
			pm.HandleEvent(ev, results)
		}
		return nil
	})

	err = g.Wait()
	pm.Wait()
	if err != nil {
		return err
	}

	ui.PrintRunSummary(w, results, res.Title, res.Description)
	return nil
}

type actionFunc func(ctx context.Context, r *actions.Runner) (actions.Result, error)

// resolveAction maps an action name and its arguments to a Runner call.
func resolveAction(name string, ids []string, expert bool, env *environment) (actionFunc, error) {
	noArgs := func(fn func(*actions.Runner, context.Context) (actions.Result, error)) (actionFunc, error) {
		if len(ids) > 0 {
			return nil, krnerrors.NewValidationError(name, "args", "no arguments", strings.Join(ids, " "))
		}
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return fn(r, ctx)
		}, nil
	}

	switch name {
	case actionOptimize:
		return noArgs((*actions.Runner).Optimize)
	case actionCheckUpdates:
		return noArgs((*actions.Runner).CheckUpdates)
	case actionUpgradeAll:
		return noArgs((*actions.Runner).UpgradeAll)
	case actionRelease:
		return noArgs((*actions.Runner).CheckRelease)
	case actionInstall:
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return r.Install(ctx, ids)
		}, nil
	case actionUninstall:
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return r.Uninstall(ctx, ids)
		}, nil
	case actionRecommendations:
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return r.ApplyRecommendations(ctx, ids)
		}, nil
	case actionTweaks:
		if len(ids) == 0 {
			ids = env.catalog.PreselectedTweaks()
		}
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return r.ApplyTweaks(ctx, ids, expert)
		}, nil
	case actionSource:
		if len(ids) != 1 {
			return nil, krnerrors.NewValidationError(name, "url", "exactly one source URL", strings.Join(ids, " "))
		}
		return func(ctx context.Context, r *actions.Runner) (actions.Result, error) {
			return r.UpdateSource(ctx, ids[0])
		}, nil
	default:
		return nil, krnerrors.NewValidationError("run", "action", strings.Join(runActions, ", "), name)
	}
}
