// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ListKeyMap scrolls the quick-return list.
type ListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

// AppKeyMap holds the demo application's global bindings. ToggleAnimated
// persists list.animated for the next launch, since the return policy cannot
// change once the list has scrolled.
type AppKeyMap struct {
	AddHeader      key.Binding
	AddFooter      key.Binding
	Reload         key.Binding
	ToggleAnimated key.Binding
	ToggleLogs     key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// List is the default list keymap.
var List = ListKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "f", " "),
		key.WithHelp("pgdn", "page down"),
	),
	HalfUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "half page up"),
	),
	HalfDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "half page down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
}

// App is the default application keymap.
var App = AppKeyMap{
	AddHeader: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "add header"),
	),
	AddFooter: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "add footer"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload items"),
	),
	ToggleAnimated: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle animated return (next launch)"),
	),
	ToggleLogs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "logs"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Help combines both keymaps for bubbles/help.
type Help struct {
	List ListKeyMap
	App  AppKeyMap
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	return []key.Binding{h.List.Down, h.List.Up, h.App.ToggleLogs, h.App.Help, h.App.Quit}
}

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.List.Up, h.List.Down, h.List.PageUp, h.List.PageDown},
		{h.List.HalfUp, h.List.HalfDown, h.List.Top, h.List.Bottom},
		{h.App.AddHeader, h.App.AddFooter, h.App.Reload, h.App.ToggleAnimated},
		{h.App.ToggleLogs, h.App.Help, h.App.Quit},
	}
}
