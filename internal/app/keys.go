package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/runger/nodepick/internal/picker"
)

type keyMap struct {
	Quit     key.Binding
	Reload   key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	NextLink key.Binding
	Clear    key.Binding

	picker picker.KeyMap
	open   bool
}

func defaultKeyMap(pk picker.KeyMap) keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "node font ×2"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "link font ÷2"),
		),
		NextLink: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next link"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		picker: pk,
	}
}

// ShortHelp implements help.KeyMap. The open dropdown takes over the help
// line.
func (k keyMap) ShortHelp() []key.Binding {
	if k.open {
		return k.picker.ShortHelp()
	}
	return []key.Binding{k.picker.Open, k.Grow, k.Shrink, k.NextLink, k.Clear, k.Reload, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	if k.open {
		return k.picker.FullHelp()
	}
	return [][]key.Binding{
		{k.picker.Open, k.Clear},
		{k.Grow, k.Shrink, k.NextLink},
		{k.Reload, k.Quit},
	}
}
