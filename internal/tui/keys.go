package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Config    key.Binding
	Status    key.Binding
	Fetch     key.Binding
	Load      key.Binding
	Topics    key.Binding
	Summarize key.Binding
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Config:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "config")),
		Status:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "check status")),
		Fetch:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch")),
		Load:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "messages")),
		Topics:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "topics")),
		Summarize: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "summarize")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev section")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Config, k.Status, k.Fetch, k.Load, k.Topics, k.Summarize, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Config, k.Status},
		{k.Fetch, k.Load, k.Topics, k.Summarize},
		{k.Next, k.Prev, k.Up, k.Down, k.Quit},
	}
}
