package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding

	// Behavioral monitoring
	Analyze key.Binding
	Inject  key.Binding

	// Regulatory intelligence
	EditDraft  key.Binding
	Assess     key.Binding
	AutoUpdate key.Binding
	Unselect   key.Binding

	// Application
	EnterKey key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous tab"),
		),

		Analyze: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("Enter/a", "analyze"),
		),
		Inject: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inject"),
		),

		EditDraft: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit draft"),
		),
		Assess: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "assess impact"),
		),
		AutoUpdate: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "auto-update"),
		),
		Unselect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear selection"),
		),

		EnterKey: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("Ctrl+K", "API key"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Analyze, k.Inject, k.Assess, k.AutoUpdate, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Analyze, k.Inject},
		{k.EditDraft, k.Assess, k.AutoUpdate, k.Unselect},
		{k.EnterKey, k.Refresh, k.Help, k.Quit},
	}
}
