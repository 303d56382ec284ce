package ui

import "github.com/charmbracelet/lipgloss"

const (
	sidebarWidth   = 24
	logPanelHeight = 8
)

var (
	accentColor = lipgloss.Color("10")  // bright green
	mutedColor  = lipgloss.Color("245") // gray
	borderColor = lipgloss.Color("238") // dark gray

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Padding(1, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(borderColor)
	brandStyle      = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	navActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accentColor)
	navStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	versionStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	promptPathStyle = lipgloss.NewStyle().Foreground(accentColor)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	subtitleStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	sectionStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	cardStyle       = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accentColor)
	tabStyle       = lipgloss.NewStyle().Foreground(mutedColor)
	cursorStyle    = lipgloss.NewStyle().Foreground(accentColor)
	selectedStyle  = lipgloss.NewStyle().Foreground(accentColor)
	riskyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	lockedStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	hintStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	busyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	consoleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(borderColor)
	consoleTitleStyle = lipgloss.NewStyle().Bold(true)
	consoleMetaStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	infoLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	warnLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	errorLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	commandLogStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

	toastStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)
	toastErrorStyle = toastStyle.BorderForeground(lipgloss.Color("1"))
	toastTitleStyle = lipgloss.NewStyle().Bold(true)

	checkOn  = "[x]"
	checkOff = "[ ]"
	cursor   = "›"
)
