package menu

import (
	"fmt"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/logging/events"
)

// Tree owns every live menu. Menus are kept in creation order; lookups by id
// resolve to the first menu registered under that id.
type Tree struct {
	Metrics Metrics
	Measure Measurer
	Diag    diag.Sink
	// Workspaces is the number of configured workspaces. The default
	// workspace submenu is hidden when it is exactly one.
	Workspaces int

	menus []*Menu
	byID  map[string]*Menu
}

// NewTree returns an empty tree.
func NewTree(metrics Metrics, measure Measurer, sink diag.Sink) *Tree {
	if measure == nil {
		measure = CellMeasurer{}
	}
	if sink == nil {
		sink = diag.Discard
	}
	return &Tree{
		Metrics:    metrics,
		Measure:    measure,
		Diag:       sink,
		Workspaces: 4,
		byID:       make(map[string]*Menu),
	}
}

// Get looks up a menu by id.
func (t *Tree) Get(id string) (*Menu, bool) {
	if id == "" {
		return nil, false
	}
	m, ok := t.byID[id]
	return m, ok
}

// Contains reports whether m is still part of the tree.
func (t *Tree) Contains(m *Menu) bool {
	if m == nil {
		return false
	}
	found, ok := t.byID[m.ID]
	return ok && found == m
}

// Menus returns the live menus in creation order.
func (t *Tree) Menus() []*Menu {
	return append([]*Menu(nil), t.menus...)
}

// Len returns the number of live menus.
func (t *Tree) Len() int { return len(t.menus) }

// Submenu resolves the submenu of an item.
func (t *Tree) Submenu(item *Item) (*Menu, bool) {
	if item == nil {
		return nil, false
	}
	return t.Get(item.Submenu)
}

// ParentOf resolves the parent of a menu.
func (t *Tree) ParentOf(m *Menu) (*Menu, bool) {
	if m == nil {
		return nil, false
	}
	return t.Get(m.Parent)
}

// CreateMenu registers a new menu. A nil parent makes a top-level menu.
func (t *Tree) CreateMenu(id, label string, parent *Menu, pipe bool) (*Menu, error) {
	if id == "" {
		diag.Report(t.Diag, diag.KindItemContext, "menu without id", map[string]interface{}{"label": label})
		return nil, fmt.Errorf("create menu: %w", ErrEmptyID)
	}
	if _, exists := t.byID[id]; exists {
		diag.Report(t.Diag, diag.KindDuplicateID, fmt.Sprintf("menu id %s already exists", id), map[string]interface{}{"id": id})
		return nil, fmt.Errorf("create menu %q: %w", id, ErrDuplicateID)
	}
	if label == "" {
		label = id
	}
	m := &Menu{
		ID:     id,
		Label:  label,
		IsPipe: pipe,
		Width:  t.Metrics.MinWidth,
	}
	if parent != nil {
		m.Parent = parent.ID
	}
	t.menus = append(t.menus, m)
	t.byID[id] = m
	events.Menu.Create(id, label, pipe)
	return m, nil
}

// Free removes a menu and clears every reference to it.
func (t *Tree) Free(m *Menu) {
	if !t.Contains(m) {
		return
	}
	for _, other := range t.menus {
		for _, item := range other.Items {
			if item.Submenu == m.ID {
				item.Submenu = ""
			}
		}
		if other.Parent == m.ID {
			other.Parent = ""
		}
		if other.Selection.Menu == m.ID {
			other.Selection.Menu = ""
		}
	}
	for i, candidate := range t.menus {
		if candidate == m {
			t.menus = append(t.menus[:i], t.menus[i+1:]...)
			break
		}
	}
	delete(t.byID, m.ID)
	m.Items = nil
	m.Enabled = false
	m.Selection = Selection{}
	events.Menu.Free(m.ID)
}

// DestroyPipeMenus frees every pipe-sourced menu and returns how many were
// removed.
func (t *Tree) DestroyPipeMenus() int {
	before := len(t.menus)
	for _, m := range t.Menus() {
		if m.IsPipe {
			t.Free(m)
		}
	}
	events.Menu.DestroyPipeMenus(before, len(t.menus))
	return before - len(t.menus)
}

// Finish frees every menu.
func (t *Tree) Finish() {
	for _, m := range t.Menus() {
		t.Free(m)
	}
	t.menus = nil
	t.byID = make(map[string]*Menu)
}

// Init loads every document from src and completes the tree: default
// root and window menus, workspace submenu hiding, widths and validation.
// A source failure still leaves a usable tree built from the defaults.
func (t *Tree) Init(src Source) error {
	var loadErr error
	if src != nil {
		_, loadErr = src.Each(func(name string, data []byte) error {
			if err := t.Parse(data); err != nil {
				diag.Report(t.Diag, diag.KindParse, err.Error(), map[string]interface{}{"source": name})
			}
			return nil
		})
		if loadErr != nil {
			diag.Report(t.Diag, diag.KindConfigSource, loadErr.Error(), nil)
		}
	}
	t.initRootMenu()
	t.initWindowMenu()
	t.UpdateWidths()
	t.Validate()
	return loadErr
}

// Reconfigure frees the whole tree and builds it again from src.
func (t *Tree) Reconfigure(src Source) error {
	t.Finish()
	return t.Init(src)
}
