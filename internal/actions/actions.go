// Package actions implements the dashboard buttons on top of the command
// sequencer. Each action validates its arguments against the catalog, runs
// one or more simulated commands in order and reports a toast.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/config"
	krnerrors "github.com/terassyi/krn08/internal/errors"
	"github.com/terassyi/krn08/internal/release"
	"github.com/terassyi/krn08/internal/terminal"
)

// ProgressBar is the canned download bar printed by winget commands.
const ProgressBar = "  ████████████████████ 100%"

// RestorePointID is the tweak that creates a system restore point before
// any other tweak is applied.
const RestorePointID = "restorepoint"

const separator = "--------------------------------"

// Sequencer runs one simulated command to completion.
type Sequencer interface {
	Run(label string, lines []string, delay time.Duration)
}

// Result is the toast shown once an action completes. A zero Result means
// no toast.
type Result struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IsZero reports whether r carries no toast.
func (r Result) IsZero() bool {
	return r.Title == "" && r.Description == ""
}

// OptimizeStarted is shown when Optimize begins.
var OptimizeStarted = Result{Title: "Running Optimization", Description: "System analysis started..."}

// Runner drives the sequencer for every action. Actions on one Runner never
// interleave: a second action waits until the first has returned.
type Runner struct {
	seq     Sequencer
	w       terminal.Writer
	catalog *catalog.Catalog
	version string
	delay   time.Duration

	mu sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithVersion sets the running version compared by CheckRelease.
func WithVersion(v string) RunnerOption {
	return func(r *Runner) {
		r.version = v
	}
}

// WithDelay overrides the per-line delay passed to the sequencer.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.delay = d
	}
}

// NewRunner creates a Runner. w receives the entries CheckRelease appends
// directly.
func NewRunner(seq Sequencer, w terminal.Writer, cat *catalog.Catalog, opts ...RunnerOption) *Runner {
	r := &Runner{
		seq:     seq,
		w:       w,
		catalog: cat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromContext creates a Runner on the terminal attached to ctx.
func FromContext(ctx context.Context, cat *catalog.Catalog, opts ...RunnerOption) (*Runner, error) {
	t, err := terminal.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewRunner(t.Sequencer, t.Store, cat, opts...), nil
}

// run executes the commands in order. Cancellation is checked between
// commands only; a started command always completes.
func (r *Runner) run(ctx context.Context, cmds []command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.seq.Run(c.label, c.lines, r.delay)
	}
	return nil
}

type command struct {
	label string
	lines []string
}

// Optimize runs the system optimization routine.
func (r *Runner) Optimize(ctx context.Context) (Result, error) {
	err := r.run(ctx, []command{{
		label: "Invoke-KrnOptimization -Level High",
		lines: []string{
			"Analyzing system performance...",
			"Clearing temporary files... [2.4 GB Freed]",
			"Optimizing registry keys...",
			"Stopping unused services...",
			"Optimization complete.",
		},
	}})
	if err != nil {
		return Result{}, err
	}
	return Result{Title: "Optimization Complete", Description: "System performance improved."}, nil
}

// CheckUpdates looks for package updates. It has no toast.
func (r *Runner) CheckUpdates(ctx context.Context) (Result, error) {
	err := r.run(ctx, []command{{
		label: "winget upgrade",
		lines: []string{
			"Checking for package updates...",
			"No updates found.",
		},
	}})
	return Result{}, err
}

// Install installs each package in order.
func (r *Runner) Install(ctx context.Context, ids []string) (Result, error) {
	if err := r.validatePackages(ids); err != nil {
		return Result{}, err
	}

	cmds := make([]command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, command{
			label: "winget install -e --id " + id,
			lines: []string{
				"Found " + id,
				"Downloading installer...",
				ProgressBar,
				"Verifying hash...",
				"Installing package...",
				"Successfully installed!",
			},
		})
	}
	if err := r.run(ctx, cmds); err != nil {
		return Result{}, err
	}
	return Result{
		Title:       "Installation Complete",
		Description: fmt.Sprintf("Successfully installed %d application(s).", len(ids)),
	}, nil
}

// Uninstall removes each package in order.
func (r *Runner) Uninstall(ctx context.Context, ids []string) (Result, error) {
	if err := r.validatePackages(ids); err != nil {
		return Result{}, err
	}

	cmds := make([]command, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, command{
			label: "winget uninstall " + id,
			lines: []string{
				"Found " + id,
				"Starting uninstaller...",
				"Waiting for uninstaller to finish...",
				"Successfully uninstalled!",
			},
		})
	}
	if err := r.run(ctx, cmds); err != nil {
		return Result{}, err
	}
	return Result{
		Title:       "Uninstallation Complete",
		Description: fmt.Sprintf("Successfully uninstalled %d application(s).", len(ids)),
	}, nil
}

// UpgradeAll upgrades every package the catalog lists as outdated.
func (r *Runner) UpgradeAll(ctx context.Context) (Result, error) {
	upgrades := r.catalog.Upgrades()

	lines := []string{
		"Checking for updates...",
		fmt.Sprintf("Found %d updates.", len(upgrades)),
		separator,
	}
	for _, name := range upgrades {
		lines = append(lines, "Upgrading "+name+"...", ProgressBar)
	}
	lines = append(lines, separator, "All packages are up to date.")

	if err := r.run(ctx, []command{{label: "winget upgrade --all", lines: lines}}); err != nil {
		return Result{}, err
	}
	return Result{
		Title:       "Upgrade Complete",
		Description: "All applications have been updated to their latest versions.",
	}, nil
}

// ApplyTweaks applies the selected tweaks. A selected restore point is
// always created first; the rest run in selection order. Risky tweaks are
// rejected unless expert is set.
func (r *Runner) ApplyTweaks(ctx context.Context, ids []string, expert bool) (Result, error) {
	if len(ids) == 0 {
		return Result{}, krnerrors.NewValidationError("tweaks", "ids", "at least one tweak", "none")
	}
	for _, id := range ids {
		tw, err := r.catalog.Tweak(id)
		if err != nil {
			return Result{}, err
		}
		if tw.Risky && !expert {
			return Result{}, krnerrors.NewValidationError(id, "risky", "expert mode", "disabled")
		}
	}

	var cmds []command
	if slices.Contains(ids, RestorePointID) {
		cmds = append(cmds, command{
			label: `Checkpoint-Computer -Description "KRN-08 Backup" -RestorePointType "MODIFY_SETTINGS"`,
			lines: []string{"Creating System Restore Point... [Done]"},
		})
	}
	for _, id := range ids {
		if id == RestorePointID {
			continue
		}
		cmds = append(cmds, command{
			label: "Apply-Tweak -Id " + id,
			lines: []string{
				"Applying tweak: " + id + "...",
				"Modifying Registry keys...",
				"Done.",
			},
		})
	}

	if err := r.run(ctx, cmds); err != nil {
		return Result{}, err
	}
	return Result{Title: "Tweaks Applied", Description: "System settings have been updated."}, nil
}

// ApplyRecommendations applies the selected dashboard recommendations.
func (r *Runner) ApplyRecommendations(ctx context.Context, ids []string) (Result, error) {
	if len(ids) == 0 {
		return Result{}, krnerrors.NewValidationError("recommendations", "ids", "at least one recommendation", "none")
	}

	cmds := make([]command, 0, len(ids))
	for _, id := range ids {
		rec, err := r.catalog.Recommendation(id)
		if err != nil {
			return Result{}, err
		}
		cmds = append(cmds, command{
			label: "Invoke-KrnRecommendation -Id " + id,
			lines: []string{
				rec.Title + "...",
				"Modifying Registry keys...",
				"Done.",
			},
		})
	}

	if err := r.run(ctx, cmds); err != nil {
		return Result{}, err
	}
	return Result{
		Title:       "Recommendations Applied",
		Description: fmt.Sprintf("Applied %d recommended action(s).", len(ids)),
	}, nil
}

// UpdateSource points winget at a custom source URL.
func (r *Runner) UpdateSource(ctx context.Context, source string) (Result, error) {
	if err := config.ValidateSource(source); err != nil {
		return Result{}, err
	}

	err := r.run(ctx, []command{{
		label: "winget source update --name krn08 --arg " + source,
		lines: []string{
			"Updating source: krn08...",
			ProgressBar,
			"Source updated: " + source,
		},
	}})
	if err != nil {
		return Result{}, err
	}
	return Result{Title: "Source Updated", Description: "Winget will use " + source + "."}, nil
}

// CheckRelease compares the running version with the release feed and
// appends the outcome as a single entry.
func (r *Runner) CheckRelease(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := release.Check(r.version, r.catalog)
	if err != nil {
		slog.Debug("release check skipped", "version", r.version, "error", err)
		r.w.Append("> Release check failed: "+err.Error(), terminal.KindError)
		return Result{}, err
	}

	if res.Status == release.UpdateAvailable {
		r.w.Append("> "+res.Message(), terminal.KindWarning)
		return Result{Title: "Update Available", Description: fmt.Sprintf("KRN-08 v%s is available.", res.Latest)}, nil
	}
	r.w.Append("> "+res.Message(), terminal.KindSuccess)
	return Result{}, nil
}

func (r *Runner) validatePackages(ids []string) error {
	if len(ids) == 0 {
		return krnerrors.NewValidationError("packages", "ids", "at least one package", "none")
	}
	for _, id := range ids {
		if _, err := r.catalog.Package(id); err != nil {
			return err
		}
	}
	return nil
}
