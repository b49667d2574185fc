package app

import (
	"github.com/charmbracelet/bubbles/key"

	"listkit/internal/ui/listview"
)

type keyMap struct {
	list listview.KeyMap

	Create  key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Offline key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap(list listview.KeyMap) keyMap {
	return keyMap{
		list:    list,
		Create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Offline: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "toggle offline")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.list.ShortHelp(), k.Create, k.Delete, k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(), []key.Binding{k.Create, k.Delete, k.Reload, k.Offline, k.Help, k.Quit})
}
