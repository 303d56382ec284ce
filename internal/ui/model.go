package ui

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/terassyi/krn08/internal/actions"
	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/config"
	"github.com/terassyi/krn08/internal/terminal"
)

const (
	tickInterval  = 500 * time.Millisecond
	toastDuration = 4 * time.Second
)

// Version is shown at the bottom of the sidebar.
const Version = "v0.8.0-beta"

// page identifies a sidebar entry.
type page int

const (
	pageDashboard page = iota
	pageInstall
	pageTweaks
	pageConfig
)

var pageTitles = []string{"Dashboard", "Install", "Tweaks", "Config"}

func (p page) String() string {
	return pageTitles[p]
}

// config page rows.
const (
	rowCheckUpdates = iota
	rowDarkMode
	rowExpertMode
	rowSource
	configRows
)

// Log is the part of terminal.Store the dashboard reads and toggles.
type Log interface {
	Entries() []terminal.Entry
	Visible() bool
	ToggleVisible() bool
	Clear()
}

// Actions runs the page actions. *actions.Runner implements it.
type Actions interface {
	Optimize(ctx context.Context) (actions.Result, error)
	CheckUpdates(ctx context.Context) (actions.Result, error)
	Install(ctx context.Context, ids []string) (actions.Result, error)
	Uninstall(ctx context.Context, ids []string) (actions.Result, error)
	UpgradeAll(ctx context.Context) (actions.Result, error)
	ApplyTweaks(ctx context.Context, ids []string, expert bool) (actions.Result, error)
	ApplyRecommendations(ctx context.Context, ids []string) (actions.Result, error)
	UpdateSource(ctx context.Context, source string) (actions.Result, error)
	CheckRelease(ctx context.Context) (actions.Result, error)
}

// Options configures a DashboardModel.
type Options struct {
	Log     Log
	Actions Actions
	Catalog *catalog.Catalog
	Config  *config.Config
	// ExportDir is where the installer script is written.
	ExportDir string
}

// selection is an ordered set of ids; actions run in selection order.
type selection []string

func (s selection) has(id string) bool {
	return slices.Contains(s, id)
}

func (s *selection) toggle(id string) {
	if i := slices.Index(*s, id); i >= 0 {
		*s = slices.Delete(*s, i, i+1)
		return
	}
	*s = append(*s, id)
}

// toast is a transient notification below the console.
type toast struct {
	actions.Result
	failed  bool
	expires time.Time
}

// DashboardModel is the Bubble Tea model for the dashboard TUI.
type DashboardModel struct {
	ctx       context.Context
	log       Log
	actions   Actions
	catalog   *catalog.Catalog
	cfg       config.Config
	exportDir string
	keys      KeyMap

	page    page
	cursors map[page]int

	// Dashboard page
	recSelected selection

	// Install page
	pkgTab      int
	pkgSelected selection

	// Tweaks page
	tweakTab      int
	tweakSelected selection

	// Config page
	source  textinput.Model
	editing bool

	// Console panel
	viewport viewport.Model
	entries  []terminal.Entry
	visible  bool
	cursorOn bool

	// Running action
	busy       bool
	busyAction string

	toast *toast
	now   func() time.Time

	width  int
	height int
}

// NewDashboardModel creates a new DashboardModel. Settings are copied from
// opts.Config; changes made on the Config page stay in memory.
func NewDashboardModel(ctx context.Context, opts Options) *DashboardModel {
	cfg := config.DefaultConfig()
	if opts.Config != nil {
		cfg = opts.Config
	}

	source := textinput.New()
	source.Placeholder = "https://winget.azureedge.net/cache"
	source.CharLimit = 256
	source.Width = 48
	source.SetValue(cfg.WingetSource)

	m := &DashboardModel{
		ctx:           ctx,
		log:           opts.Log,
		actions:       opts.Actions,
		catalog:       opts.Catalog,
		cfg:           *cfg,
		exportDir:     opts.ExportDir,
		keys:          DefaultKeyMap,
		cursors:       make(map[page]int),
		tweakSelected: selection(opts.Catalog.PreselectedTweaks()),
		source:        source,
		viewport:      viewport.New(80, logPanelHeight),
		cursorOn:      true,
		now:           time.Now,
		width:         100,
		height:        40,
	}
	m.syncLog()
	return m
}

// Init implements tea.Model.
func (m *DashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.cfg.CheckUpdates {
		cmds = append(cmds, m.start("release check", m.actions.CheckRelease))
	}
	return tea.Batch(cmds...)
}

// Config returns the in-memory settings.
func (m *DashboardModel) Config() config.Config {
	return m.cfg
}

// Busy reports whether an action is running.
func (m *DashboardModel) Busy() bool {
	return m.busy
}

// tick returns a command that sends a tickMsg after the tick interval.
func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
