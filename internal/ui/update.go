package ui

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/terassyi/krn08/internal/actions"
	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/config"
	"github.com/terassyi/krn08/internal/script"
)

// Update implements tea.Model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.mainWidth()
		m.syncLog()
		return m, nil

	case storeEventMsg:
		m.syncLog()
		return m, nil

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case tickMsg:
		if m.toast != nil && !time.Time(msg).Before(m.toast.expires) {
			m.toast = nil
		}
		m.cursorOn = !m.cursorOn
		m.refreshLog()
		return m, tick()

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes a key press outside of the source URL field.
func (m *DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPage):
		m.page = (m.page + 1) % page(len(pageTitles))
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		m.page = (m.page + page(len(pageTitles)) - 1) % page(len(pageTitles))
		return m, nil
	case key.Matches(msg, m.keys.TerminalToggle):
		m.log.ToggleVisible()
		m.syncLog()
		return m, nil
	case key.Matches(msg, m.keys.ClearLog):
		m.log.Clear()
		m.syncLog()
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(logPanelHeight / 2)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(logPanelHeight / 2)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.moveTab(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.moveTab(1)
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleItem()
	}

	if m.busy {
		return m, nil
	}

	switch m.page {
	case pageDashboard:
		return m, m.dashboardKey(msg)
	case pageInstall:
		return m, m.installKey(msg)
	case pageTweaks:
		return m, m.tweaksKey(msg)
	case pageConfig:
		return m, m.configKey(msg)
	}
	return m, nil
}

func (m *DashboardModel) dashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Optimize):
		m.showToast(actions.OptimizeStarted, false)
		return m.start("optimization", m.actions.Optimize)
	case key.Matches(msg, m.keys.CheckUpdates):
		return m.start("update check", m.actions.CheckUpdates)
	case key.Matches(msg, m.keys.Apply):
		if len(m.recSelected) == 0 {
			return nil
		}
		ids := slices.Clone(m.recSelected)
		return m.start("recommendations", func(ctx context.Context) (actions.Result, error) {
			return m.actions.ApplyRecommendations(ctx, ids)
		})
	}
	return nil
}

func (m *DashboardModel) installKey(msg tea.KeyMsg) tea.Cmd {
	ids := slices.Clone(m.pkgSelected)

	switch {
	case key.Matches(msg, m.keys.Install):
		if len(ids) == 0 {
			return nil
		}
		return m.start("install", func(ctx context.Context) (actions.Result, error) {
			return m.actions.Install(ctx, ids)
		})
	case key.Matches(msg, m.keys.Uninstall):
		if len(ids) == 0 {
			return nil
		}
		return m.start("uninstall", func(ctx context.Context) (actions.Result, error) {
			return m.actions.Uninstall(ctx, ids)
		})
	case key.Matches(msg, m.keys.UpgradeAll):
		return m.start("upgrade", m.actions.UpgradeAll)
	case key.Matches(msg, m.keys.Export):
		if len(ids) == 0 {
			return nil
		}
		return m.export(ids)
	}
	return nil
}

func (m *DashboardModel) tweaksKey(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, m.keys.Apply) || len(m.tweakSelected) == 0 {
		return nil
	}
	ids := slices.Clone(m.tweakSelected)
	expert := m.cfg.ExpertMode
	return m.start("tweaks", func(ctx context.Context) (actions.Result, error) {
		return m.actions.ApplyTweaks(ctx, ids, expert)
	})
}

func (m *DashboardModel) configKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Edit):
		if m.cursors[pageConfig] != rowSource {
			m.toggleSetting(m.cursors[pageConfig])
			return nil
		}
		m.editing = true
		return m.source.Focus()
	case key.Matches(msg, m.keys.Reset):
		delay := m.cfg.Delay
		m.cfg = *config.DefaultConfig()
		m.cfg.Delay = delay
		m.source.SetValue("")
		m.dropRiskyTweaks()
		m.clampTab()
		m.showToast(actions.Result{Title: "Settings Reset", Description: "All settings restored to defaults."}, false)
		return nil
	}
	return nil
}

// handleEditKey routes keys to the source URL field until it is submitted
// or cancelled.
func (m *DashboardModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.source.Blur()
		m.source.SetValue(m.cfg.WingetSource)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.busy {
			return m, nil
		}
		m.editing = false
		m.source.Blur()
		src := m.source.Value()
		return m, m.start("source update", func(ctx context.Context) (actions.Result, error) {
			return m.actions.UpdateSource(ctx, src)
		})
	}

	var cmd tea.Cmd
	m.source, cmd = m.source.Update(msg)
	return m, cmd
}

// start marks the page busy and returns a command running fn.
func (m *DashboardModel) start(name string, fn func(context.Context) (actions.Result, error)) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.busyAction = name

	ctx := m.ctx
	return func() tea.Msg {
		res, err := fn(ctx)
		return actionDoneMsg{name: name, result: res, err: err}
	}
}

// handleActionDone clears the busy flag and reports the outcome.
func (m *DashboardModel) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.busyAction = ""
	m.syncLog()

	if msg.err != nil {
		if msg.name == "source update" {
			m.source.SetValue(m.cfg.WingetSource)
		}
		m.showToast(actions.Result{Title: "Error", Description: msg.err.Error()}, true)
		return m, nil
	}

	switch msg.name {
	case "install", "uninstall":
		m.pkgSelected = nil
	case "recommendations":
		m.recSelected = nil
	case "source update":
		m.cfg.WingetSource = m.source.Value()
	}

	if !msg.result.IsZero() {
		m.showToast(msg.result, false)
	}
	return m, nil
}

func (m *DashboardModel) export(ids []string) tea.Cmd {
	path := filepath.Join(m.exportDir, script.DefaultFileName)
	if err := script.Write(path, ids); err != nil {
		m.showToast(actions.Result{Title: "Export Failed", Description: err.Error()}, true)
		return nil
	}
	m.showToast(actions.Result{
		Title:       "Script Downloaded",
		Description: "Run this PowerShell script on your PC to install.",
	}, false)
	return nil
}

// showToast replaces the current toast. It is hidden by the first tick
// after toastDuration.
func (m *DashboardModel) showToast(res actions.Result, failed bool) {
	m.toast = &toast{Result: res, failed: failed, expires: m.now().Add(toastDuration)}
}

// toggleItem selects or deselects the item under the cursor. Selections can
// change while an action runs; the running action keeps its own copy.
func (m *DashboardModel) toggleItem() tea.Cmd {
	i := m.cursors[m.page]
	switch m.page {
	case pageDashboard:
		recs := m.catalog.Recommended()
		if i < len(recs) {
			m.recSelected.toggle(recs[i].ID)
		}
	case pageInstall:
		pkgs := m.currentPackages()
		if i < len(pkgs) {
			m.pkgSelected.toggle(pkgs[i].ID)
		}
	case pageTweaks:
		tweaks := m.currentTweaks()
		if i < len(tweaks) {
			m.tweakSelected.toggle(tweaks[i].ID)
		}
	case pageConfig:
		if i == rowSource {
			return nil
		}
		m.toggleSetting(i)
	}
	return nil
}

func (m *DashboardModel) toggleSetting(row int) {
	switch row {
	case rowCheckUpdates:
		m.cfg.CheckUpdates = !m.cfg.CheckUpdates
	case rowExpertMode:
		m.cfg.ExpertMode = !m.cfg.ExpertMode
		if !m.cfg.ExpertMode {
			m.dropRiskyTweaks()
			m.clampTab()
		}
	}
}

// dropRiskyTweaks removes risky tweaks from the selection.
func (m *DashboardModel) dropRiskyTweaks() {
	m.tweakSelected = slices.DeleteFunc(m.tweakSelected, func(id string) bool {
		tw, err := m.catalog.Tweak(id)
		return err != nil || tw.Risky
	})
}

func (m *DashboardModel) moveCursor(delta int) {
	n := m.itemCount()
	if n == 0 {
		return
	}
	c := m.cursors[m.page] + delta
	m.cursors[m.page] = min(max(c, 0), n-1)
}

func (m *DashboardModel) moveTab(delta int) {
	switch m.page {
	case pageInstall:
		n := len(m.catalog.PackageGroups())
		m.pkgTab = (m.pkgTab + n + delta) % n
	case pageTweaks:
		n := len(m.catalog.TweakGroups(m.cfg.ExpertMode))
		m.tweakTab = (m.tweakTab + n + delta) % n
	default:
		return
	}
	m.cursors[m.page] = 0
}

func (m *DashboardModel) clampTab() {
	n := len(m.catalog.TweakGroups(m.cfg.ExpertMode))
	if m.tweakTab >= n {
		m.tweakTab = n - 1
		m.cursors[pageTweaks] = 0
	}
	if c := m.cursors[pageTweaks]; c >= len(m.currentTweaks()) {
		m.cursors[pageTweaks] = 0
	}
}

func (m *DashboardModel) itemCount() int {
	switch m.page {
	case pageDashboard:
		return len(m.catalog.Recommended())
	case pageInstall:
		return len(m.currentPackages())
	case pageTweaks:
		return len(m.currentTweaks())
	case pageConfig:
		return configRows
	}
	return 0
}

func (m *DashboardModel) currentPackages() []catalog.Package {
	groups := m.catalog.PackageGroups()
	pkgs, _ := m.catalog.Packages(groups[m.pkgTab].Name)
	return pkgs
}

func (m *DashboardModel) currentTweaks() []catalog.Tweak {
	groups := m.catalog.TweakGroups(m.cfg.ExpertMode)
	tweaks, _ := m.catalog.Tweaks(groups[m.tweakTab].Name, m.cfg.ExpertMode)
	return tweaks
}

// syncLog takes a fresh snapshot of the store and scrolls to the newest entry.
func (m *DashboardModel) syncLog() {
	m.entries = m.log.Entries()
	m.visible = m.log.Visible()
	m.refreshLog()
	m.viewport.GotoBottom()
}

// refreshLog re-renders the console content, keeping the scroll position.
func (m *DashboardModel) refreshLog() {
	m.viewport.SetContent(renderEntries(m.entries, m.cursorOn))
}
