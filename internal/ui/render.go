package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/terminal"
)

const (
	progressBarWidth = 20
	progressFull     = '█'
	progressEmpty    = '░'

	promptPath  = `C:\Users\Admin\KRN-08\`
	waitingText = "> Waiting for user input..."
)

// stat is a fixed reading on the dashboard.
type stat struct {
	label   string
	value   string
	percent int
}

var stats = []stat{
	{label: "CPU", value: "12%", percent: 12},
	{label: "RAM", value: "8.4 GB", percent: 45},
}

// View implements tea.Model.
func (m *DashboardModel) View() string {
	width := m.mainWidth()

	sections := []string{
		m.renderHeader(width),
		m.renderPage(width),
	}
	if m.visible {
		sections = append(sections, m.renderConsole(width))
	}
	if m.toast != nil {
		sections = append(sections, renderToast(m.toast))
	}
	sections = append(sections, m.renderHelp())

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m *DashboardModel) mainWidth() int {
	return max(m.width-sidebarWidth-2, 40)
}

// renderSidebar renders the navigation column with the version at the bottom.
func (m *DashboardModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString(brandStyle.Render("KRN-08"))
	b.WriteString("\n\n")
	for i, title := range pageTitles {
		line := fmt.Sprintf(" %s ", title)
		if page(i) == m.page {
			b.WriteString(navActiveStyle.Render(line))
		} else {
			b.WriteString(navStyle.Render(line))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(versionStyle.Render(Version))
	return sidebarStyle.Render(b.String())
}

// renderHeader renders the prompt path and the terminal toggle indicator.
func (m *DashboardModel) renderHeader(width int) string {
	state := "hidden"
	if m.visible {
		state = "open"
	}
	left := promptPathStyle.Render(promptPath) + headerStyle.Render(" > "+m.page.String())
	right := headerStyle.Render(fmt.Sprintf("[t] Terminal: %s", state))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (m *DashboardModel) renderPage(width int) string {
	switch m.page {
	case pageInstall:
		return m.renderInstall()
	case pageTweaks:
		return m.renderTweaks()
	case pageConfig:
		return m.renderConfig()
	default:
		return m.renderDashboard(width)
	}
}

func (m *DashboardModel) renderDashboard(width int) string {
	var b strings.Builder

	status := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("System Status"),
		subtitleStyle.Render("All systems operational. No critical updates pending."),
		hintStyle.Render("[o] Run Optimization  [u] Check Updates"),
	)
	cards := []string{cardStyle.Render(status)}
	for _, s := range stats {
		cards = append(cards, cardStyle.Render(renderStat(s)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > width {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	b.WriteString(row)
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Recommended Actions"))
	b.WriteByte('\n')
	for i, rec := range m.catalog.Recommended() {
		b.WriteString(m.renderItem(i, m.recSelected.has(rec.ID), rec.Title, "["+rec.Category+"] "+rec.Description, false))
	}
	return b.String()
}

func renderStat(s stat) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(s.label),
		titleStyle.Render(s.value),
		renderBar(s.percent, progressBarWidth/2),
	)
}

func (m *DashboardModel) renderInstall() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Install Applications"))
	b.WriteByte('\n')
	b.WriteString(renderTabs(m.catalog.PackageGroups(), m.pkgTab))
	b.WriteString("\n\n")

	for i, p := range m.currentPackages() {
		b.WriteString(m.renderItem(i, m.pkgSelected.has(p.ID), p.Title, p.Description, false))
	}

	b.WriteByte('\n')
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d selected  [i] Install  [x] Uninstall  [U] Upgrade All  [e] Export Script", len(m.pkgSelected))))
	return b.String()
}

func (m *DashboardModel) renderTweaks() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System Tweaks"))
	b.WriteByte('\n')
	b.WriteString(renderTabs(m.catalog.TweakGroups(m.cfg.ExpertMode), m.tweakTab))
	b.WriteString("\n\n")

	for i, tw := range m.currentTweaks() {
		b.WriteString(m.renderItem(i, m.tweakSelected.has(tw.ID), tw.Title, tw.Description, tw.Risky))
	}

	b.WriteByte('\n')
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d selected  [a] Apply Tweaks", len(m.tweakSelected))))
	return b.String()
}

func (m *DashboardModel) renderConfig() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Configuration"))
	b.WriteByte('\n')
	b.WriteString(subtitleStyle.Render("Manage KRN-08 settings and preferences."))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("General Settings"))
	b.WriteByte('\n')
	b.WriteString(m.renderSetting(rowCheckUpdates, "Check for updates on startup", "Automatically notify when a new version is available.", m.cfg.CheckUpdates, false))
	b.WriteString(m.renderSetting(rowDarkMode, "Dark Mode", "Force dark theme across the application.", m.cfg.DarkMode, true))
	b.WriteString(m.renderSetting(rowExpertMode, "Expert Mode", "Show advanced tweaks that may be risky.", m.cfg.ExpertMode, false))
	b.WriteByte('\n')

	b.WriteString(sectionStyle.Render("Winget Configuration"))
	b.WriteByte('\n')
	b.WriteString(m.cursorMark(rowSource))
	b.WriteString("Custom Source URL  ")
	b.WriteString(m.source.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[enter] Edit/Update  [r] Reset All Settings"))
	return b.String()
}

func (m *DashboardModel) renderSetting(row int, label, desc string, on, locked bool) string {
	state := "[off]"
	if on {
		state = selectedStyle.Render("[on]")
	}
	if locked {
		state += " " + lockedStyle.Render("(locked)")
	}
	return fmt.Sprintf("%s%s %s\n     %s\n", m.cursorMark(row), state, label, subtitleStyle.Render(desc))
}

// renderItem renders one selectable row of the current page.
func (m *DashboardModel) renderItem(i int, selected bool, title, desc string, risky bool) string {
	check := checkOff
	if selected {
		check = selectedStyle.Render(checkOn)
	}
	if risky {
		title += " " + riskyStyle.Render("(risky)")
	}
	return fmt.Sprintf("%s%s %s  %s\n", m.cursorMark(i), check, title, subtitleStyle.Render(desc))
}

func (m *DashboardModel) cursorMark(i int) string {
	if m.cursors[m.page] == i {
		return cursorStyle.Render(cursor) + " "
	}
	return "  "
}

func renderTabs(groups []catalog.Group, active int) string {
	tabs := make([]string, len(groups))
	for i, g := range groups {
		if i == active {
			tabs[i] = tabActiveStyle.Render(g.Title)
		} else {
			tabs[i] = tabStyle.Render(g.Title)
		}
	}
	return strings.Join(tabs, "  ")
}

// renderConsole renders the output console: title bar and scrolling log.
func (m *DashboardModel) renderConsole(width int) string {
	title := consoleTitleStyle.Render("Output Console")
	meta := consoleMetaStyle.Render("PowerShell 7.4.1")
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(meta), 1)
	bar := title + strings.Repeat(" ", gap) + meta
	return consoleStyle.Width(width).Render(bar + "\n" + m.viewport.View())
}

// renderEntries renders every entry followed by the waiting prompt.
func renderEntries(entries []terminal.Entry, cursorOn bool) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(entryStyle(e.Kind).Render(e.Text))
		b.WriteByte('\n')
	}
	b.WriteString(infoLogStyle.Render(waitingText))
	if cursorOn {
		b.WriteString(infoLogStyle.Render("_"))
	}
	return b.String()
}

func entryStyle(k terminal.Kind) lipgloss.Style {
	switch k {
	case terminal.KindSuccess:
		return successLogStyle
	case terminal.KindWarning:
		return warnLogStyle
	case terminal.KindError:
		return errorLogStyle
	case terminal.KindCommand:
		return commandLogStyle
	default:
		return infoLogStyle
	}
}

func renderToast(t *toast) string {
	style := toastStyle
	if t.failed {
		style = toastErrorStyle
	}
	return style.Render(toastTitleStyle.Render(t.Title) + "\n" + t.Description)
}

// renderHelp renders the key hints for the current page.
func (m *DashboardModel) renderHelp() string {
	bindings := []key.Binding{m.keys.NextPage, m.keys.Up, m.keys.Toggle}
	switch m.page {
	case pageInstall, pageTweaks:
		bindings = append(bindings, m.keys.NextTab)
	}
	bindings = append(bindings, m.keys.TerminalToggle, m.keys.ClearLog, m.keys.ScrollUp, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	help := hintStyle.Render(strings.Join(parts, " • "))
	if m.busy {
		help = busyStyle.Render(fmt.Sprintf("Running %s...", m.busyAction)) + "  " + help
	}
	return help
}

// renderBar renders a fixed-width percentage bar.
func renderBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return strings.Repeat(string(progressFull), filled) + strings.Repeat(string(progressEmpty), width-filled)
}
