package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/wmmenu/internal/navigator"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return m.quit("key")
	}
	if m.nav.Mode() != navigator.ModeMenu {
		return m.handleIdleKey(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.nav.SelectPrevious()
	case key.Matches(keyMsg, m.keys.Down):
		m.nav.SelectNext()
	case key.Matches(keyMsg, m.keys.Enter):
		m.nav.SubmenuEnter()
	case key.Matches(keyMsg, m.keys.Leave):
		m.nav.SubmenuLeave()
	case key.Matches(keyMsg, m.keys.Activate):
		return m.activateSelection()
	case key.Matches(keyMsg, m.keys.Close):
		m.nav.CloseRoot()
	}
	return nil
}

func (m *Model) handleIdleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Open):
		m.openAt(m.anchorX, m.anchorY)
	case key.Matches(msg, m.keys.Reload):
		m.reload(false)
	}
	return nil
}

// activateSelection enters a submenu or runs the highlighted item.
func (m *Model) activateSelection() tea.Cmd {
	leaf := m.nav.SelectionLeaf()
	if leaf == nil || leaf.Selection.Item == nil {
		return nil
	}
	if _, ok := m.tree.Submenu(leaf.Selection.Item); ok {
		m.nav.SubmenuEnter()
		return nil
	}
	if !m.nav.CallSelectedActions() {
		return nil
	}
	m.metrics.ObserveActivation()
	return m.bus.Drain()
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.nav.Mode() != navigator.ModeMenu {
		if mouse.Action == tea.MouseActionPress && mouse.Button == tea.MouseButtonRight {
			m.openAt(mouse.X, mouse.Y)
		}
		return nil
	}

	item := m.nav.ItemAt(mouse.X, mouse.Y)
	switch mouse.Action {
	case tea.MouseActionMotion:
		if item != nil && item != m.hover {
			m.hover = item
			m.nav.Select(item)
		}
	case tea.MouseActionPress:
		if item == nil {
			m.nav.CloseRoot()
			return nil
		}
		m.nav.Select(item)
	case tea.MouseActionRelease:
		if item == nil || mouse.Button != tea.MouseButtonLeft {
			return nil
		}
		if m.nav.Activate(item) {
			m.metrics.ObserveActivation()
			return m.bus.Drain()
		}
	}
	return nil
}
