package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Leave    key.Binding
	Activate key.Binding
	Close    key.Binding
	Open     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "submenu")),
		Leave:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "run")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Open:     key.NewBinding(key.WithKeys("enter", " ", "m"), key.WithHelp("m", "open menu")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// menuHelp lists the bindings active while a menu is open.
func (k keyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Leave, k.Activate, k.Close, k.Quit}
}

// idleHelp lists the bindings active while no menu is open.
func (k keyMap) idleHelp() []key.Binding {
	return []key.Binding{k.Open, k.Reload, k.Quit}
}
