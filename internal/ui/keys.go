package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	// Navigation.
	NextPage key.Binding
	PrevPage key.Binding
	Up       key.Binding
	Down     key.Binding
	PrevTab  key.Binding
	NextTab  key.Binding
	Toggle   key.Binding // Select the item under the cursor.

	// Terminal panel.
	TerminalToggle key.Binding
	ClearLog       key.Binding
	ScrollUp       key.Binding
	ScrollDown     key.Binding

	// Dashboard page.
	Optimize     key.Binding
	CheckUpdates key.Binding

	// Install page.
	Install    key.Binding
	Uninstall  key.Binding
	UpgradeAll key.Binding
	Export     key.Binding

	// Apply runs the selected tweaks or recommendations.
	Apply key.Binding

	// Config page.
	Edit   key.Binding
	Reset  key.Binding
	Submit key.Binding
	Cancel key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextPage: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev page"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev tab"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next tab"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	TerminalToggle: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "terminal"),
	),
	ClearLog: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear log"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "scroll log"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "scroll log"),
	),
	Optimize: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "optimize"),
	),
	CheckUpdates: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "check updates"),
	),
	Install: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "install"),
	),
	Uninstall: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "uninstall"),
	),
	UpgradeAll: key.NewBinding(
		key.WithKeys("U"),
		key.WithHelp("U", "upgrade all"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export script"),
	),
	Apply: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "apply"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset all"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "update"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
