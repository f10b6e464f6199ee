package menu

import (
	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/logging/events"
)

type defaultEntry struct {
	label  string
	action string
	args   [][2]string
}

var rootMenuDefaults = []defaultEntry{
	{label: "Reconfigure", action: "Reconfigure"},
	{label: "Exit", action: "Exit"},
}

var windowMenuDefaults = []defaultEntry{
	{label: "Minimize", action: "Iconify"},
	{label: "Maximize", action: "ToggleMaximize"},
	{label: "Fullscreen", action: "ToggleFullscreen"},
	{label: "Roll up/down", action: "ToggleShade"},
	{label: "Decorations", action: "ToggleDecorations"},
	{label: "Always on Top", action: "ToggleAlwaysOnTop"},
}

// SendToDesktop follows the window by default, so no GoToDesktop is needed.
var workspaceMenuDefaults = []defaultEntry{
	{label: "Move left", action: "SendToDesktop", args: [][2]string{{"to.action", "left"}}},
	{label: "Move right", action: "SendToDesktop", args: [][2]string{{"to.action", "right"}}},
	{},
	{label: "Always on Visible Workspace", action: "ToggleOmnipresent"},
}

func (t *Tree) addDefaults(m *Menu, entries []defaultEntry) {
	for _, e := range entries {
		if e.action == "" {
			t.newSeparator(m, "")
			continue
		}
		item := t.newItem(m, e.label, false)
		a := action.New(e.action)
		for _, arg := range e.args {
			a.SetArg(arg[0], arg[1])
		}
		item.Actions = append(item.Actions, a)
	}
}

// topLevel returns the menu registered under id, creating it when missing.
func (t *Tree) topLevel(id string) *Menu {
	if m, ok := t.Get(id); ok {
		return m
	}
	m, err := t.CreateMenu(id, "", nil, false)
	if err != nil {
		return nil
	}
	return m
}

func (t *Tree) initRootMenu() {
	m := t.topLevel(RootMenuID)
	if m != nil && len(m.Items) == 0 {
		t.addDefaults(m, rootMenuDefaults)
	}
}

func (t *Tree) initWindowMenu() {
	m := t.topLevel(ClientMenuID)
	if m != nil && len(m.Items) == 0 {
		t.addDefaults(m, windowMenuDefaults)
		// A user-defined "workspaces" menu wins; the default entry is
		// left out rather than linked to foreign content.
		if _, exists := t.Get(WorkspacesID); !exists {
			if ws, err := t.CreateMenu(WorkspacesID, "", m, false); err == nil {
				t.addDefaults(ws, workspaceMenuDefaults)
				item := t.newItem(m, "Workspace", true)
				item.Submenu = ws.ID
			}
		}
		t.addDefaults(m, []defaultEntry{{label: "Close", action: "Close"}})
	}
	if t.Workspaces == 1 {
		t.HideSubmenu(WorkspacesID)
	}
}

// HideSubmenu removes every item that opens the menu with the given id and
// re-stacks the affected menus.
func (t *Tree) HideSubmenu(id string) {
	hidden, ok := t.Get(id)
	if !ok {
		return
	}
	touched := 0
	for _, m := range t.menus {
		kept := m.Items[:0]
		removed := false
		for _, item := range m.Items {
			if item.Submenu == hidden.ID {
				removed = true
				if m.Selection.Item == item {
					m.Selection.Item = nil
				}
				item.menu = nil
				continue
			}
			kept = append(kept, item)
		}
		if !removed {
			continue
		}
		for i := len(kept); i < len(m.Items); i++ {
			m.Items[i] = nil
		}
		m.Items = kept
		t.recomputeHeight(m)
		touched++
	}
	events.Menu.Hide(id, touched)
}

func (t *Tree) recomputeHeight(m *Menu) {
	height := 0
	for _, item := range m.Items {
		item.Y = height
		height += item.Height
	}
	m.Height = height
}
