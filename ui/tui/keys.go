package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Toggle     key.Binding
	Cumulative key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Toggle, k.Cumulative, k.Back},
		{k.PrevDay, k.NextDay},
		{k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "monter"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "descendre"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("entrée", "afficher"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "cumul/variations"),
	),
	Cumulative: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "afficher le cumul"),
	),
	PrevDay: key.NewBinding(
		key.WithKeys("left", "["),
		key.WithHelp("←/[", "jour précédent"),
	),
	NextDay: key.NewBinding(
		key.WithKeys("right", "]"),
		key.WithHelp("→/]", "jour suivant"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "retour France"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "aide"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quitter"),
	),
}
