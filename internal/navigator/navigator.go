// Package navigator keeps the single open path through the menu tree and
// turns pointer and keyboard input into selection, submenu and execution
// changes.
package navigator

import (
	"errors"
	"fmt"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/layout"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
)

// ErrStaleParent is returned when pipe output arrives for a closed menu.
var ErrStaleParent = errors.New("parent menu already closed")

// Mode is the ambient input mode.
type Mode int

const (
	ModePassthrough Mode = iota
	ModeMenu
)

func (m Mode) String() string {
	if m == ModeMenu {
		return "menu"
	}
	return "passthrough"
}

// Executor performs the actions of an activated item.
type Executor interface {
	Run(actions []*action.Action, triggeredBy interface{})
}

// Focus refreshes pointer focus once the menu stops grabbing input.
type Focus interface {
	UpdateFocus()
}

type Options struct {
	Tree     *menu.Tree
	Layout   *layout.Engine
	Pipes    *pipemenu.Controller
	Executor Executor
	Focus    Focus
	Diag     diag.Sink
}

// Navigator owns the active top-level menu. All methods must be called from
// the goroutine that drives the pipe menu reactor.
type Navigator struct {
	tree     *menu.Tree
	layout   *layout.Engine
	pipes    *pipemenu.Controller
	executor Executor
	focus    Focus
	diag     diag.Sink

	active       *menu.Menu
	mode         Mode
	lastSelected *menu.Item
}

// New wires a navigator. It becomes the splicer of opts.Pipes unless one is
// already set.
func New(opts Options) *Navigator {
	n := &Navigator{
		tree:     opts.Tree,
		layout:   opts.Layout,
		pipes:    opts.Pipes,
		executor: opts.Executor,
		focus:    opts.Focus,
		diag:     opts.Diag,
	}
	if n.diag == nil {
		n.diag = diag.Discard
	}
	if n.pipes != nil && n.pipes.Splicer == nil {
		n.pipes.Splicer = n
	}
	return n
}

// Active returns the open top-level menu or nil.
func (n *Navigator) Active() *menu.Menu { return n.active }

func (n *Navigator) Mode() Mode { return n.mode }

func (n *Navigator) Tree() *menu.Tree { return n.tree }

// Pending reports whether a pipe menu is being generated.
func (n *Navigator) Pending() bool {
	return n.pipes != nil && n.pipes.Pending()
}

// Select highlights item and opens its submenu, closing whatever its menu
// had open before. Pipe items without a submenu start their command.
func (n *Navigator) Select(item *menu.Item) {
	if item == nil || item == n.lastSelected {
		return
	}
	if n.Pending() {
		return
	}
	n.lastSelected = item
	if !item.Selectable {
		return
	}
	m := item.Menu()
	if m == nil || !n.tree.Contains(m) {
		return
	}

	m.Selection.Item = item
	if open, ok := n.tree.Get(m.Selection.Menu); ok {
		n.close(open)
	}
	m.Selection.Menu = ""
	events.Nav.Select(m.ID, item.Label, m.Index(item))

	sub, hasSub := n.tree.Submenu(item)
	if item.IsPipe() && !hasSub {
		if n.pipes != nil {
			// Busy and duplicate-id refusals are traced and diagnosed by the
			// controller; the item simply keeps no submenu.
			_, _ = n.pipes.Start(item)
		}
		return
	}
	if hasSub {
		sub.TriggeredBy = m.TriggeredBy
		sub.Parent = m.ID
		if n.layout != nil {
			// Shared menus open beside the item that was selected.
			x, y := n.layout.SubmenuPosition(item, m.Align)
			_ = n.layout.Configure(sub, x, y, m.Align)
		}
		sub.Enabled = true
		m.Selection.Menu = sub.ID
	}
}

// SelectNext highlights the next selectable item of the selection leaf,
// wrapping around.
func (n *Navigator) SelectNext() { n.selectSibling(true) }

// SelectPrevious highlights the previous selectable item of the selection
// leaf, wrapping around.
func (n *Navigator) SelectPrevious() { n.selectSibling(false) }

func (n *Navigator) selectSibling(forward bool) {
	m := n.SelectionLeaf()
	if m == nil || len(m.Items) == 0 {
		return
	}
	// Positions 0..len-1 are items; len is the list head, skipped but
	// counted so a full lap ends where it started.
	ring := len(m.Items) + 1
	start := len(m.Items)
	if idx := m.Index(m.Selection.Item); idx >= 0 {
		start = idx
	}
	pos := start
	for {
		if forward {
			pos = (pos + 1) % ring
		} else {
			pos = (pos - 1 + ring) % ring
		}
		if pos == start {
			return
		}
		if pos == len(m.Items) {
			continue
		}
		if m.Items[pos].Selectable {
			n.Select(m.Items[pos])
			return
		}
	}
}

// SubmenuEnter selects the first selectable item of the submenu open under
// the selection leaf.
func (n *Navigator) SubmenuEnter() {
	m := n.SelectionLeaf()
	if m == nil {
		return
	}
	child, ok := n.tree.Get(m.Selection.Menu)
	if !ok {
		return
	}
	if first := child.FirstSelectable(); first != nil {
		n.Select(first)
	}
}

// SubmenuLeave re-selects the parent item of the selection leaf, closing
// one level.
func (n *Navigator) SubmenuLeave() {
	m := n.SelectionLeaf()
	if m == nil {
		return
	}
	parent, ok := n.tree.ParentOf(m)
	if !ok || parent.Selection.Item == nil {
		return
	}
	n.Select(parent.Selection.Item)
}

// SelectionLeaf returns the deepest open menu that still has a highlighted
// child, or the active menu itself.
func (n *Navigator) SelectionLeaf() *menu.Menu {
	m := n.active
	if m == nil {
		return nil
	}
	seen := map[*menu.Menu]bool{m: true}
	for {
		child, ok := n.tree.Get(m.Selection.Menu)
		if !ok || seen[child] {
			return m
		}
		if child.Selection.Item == nil {
			return m
		}
		seen[child] = true
		m = child
	}
}

// Activate runs the actions of a terminal item. Items that open a submenu
// and separators are never activated.
func (n *Navigator) Activate(item *menu.Item) bool {
	if item == nil || !item.Selectable || item.IsPipe() {
		return false
	}
	if _, ok := n.tree.Submenu(item); ok {
		return false
	}
	m := item.Menu()
	if m == nil {
		return false
	}

	// Close first so input generated by the actions reaches the focused
	// client rather than the menu.
	if n.active != nil {
		n.close(n.active)
	}
	n.mode = ModePassthrough
	if n.focus != nil {
		n.focus.UpdateFocus()
	}

	names := make([]string, 0, len(item.Actions))
	for _, a := range item.Actions {
		names = append(names, a.Name)
	}
	events.Nav.Execute(m.ID, item.Label, names)
	if n.executor != nil {
		n.executor.Run(item.Actions, m.TriggeredBy)
	}

	n.active = nil
	n.destroyPipeMenus()
	return true
}

// CallSelectedActions activates the highlighted item of the selection leaf.
func (n *Navigator) CallSelectedActions() bool {
	m := n.SelectionLeaf()
	if m == nil || m.Selection.Item == nil {
		return false
	}
	return n.Activate(m.Selection.Item)
}

// OpenRoot closes any open menu, then positions m at (x, y) and makes it
// the active menu. On a layout failure m stays hidden and nothing is active.
func (n *Navigator) OpenRoot(m *menu.Menu, x, y int, triggeredBy interface{}) error {
	if n.active != nil {
		n.close(n.active)
		n.active = nil
		n.destroyPipeMenus()
	}
	if !n.tree.Contains(m) {
		return fmt.Errorf("open menu: %w", menu.ErrNoMenu)
	}
	n.closeAllSubmenus(m, map[*menu.Menu]bool{})
	m.Selection.Item = nil
	m.TriggeredBy = triggeredBy
	n.lastSelected = nil

	if err := n.layout.Configure(m, x, y, menu.AlignAuto); err != nil {
		m.Enabled = false
		n.mode = ModePassthrough
		return err
	}
	m.Enabled = true
	n.active = m
	n.mode = ModeMenu
	events.Nav.OpenRoot(m.ID, m.X, m.Y)
	return nil
}

// CloseRoot closes the active menu and drops cached pipe menus.
func (n *Navigator) CloseRoot() {
	if n.active != nil {
		events.Nav.CloseRoot(n.active.ID)
		n.close(n.active)
		n.active = nil
		n.destroyPipeMenus()
	}
	n.lastSelected = nil
	n.mode = ModePassthrough
}

// Reconfigure rebuilds the tree from src. An open menu is closed first.
func (n *Navigator) Reconfigure(src menu.Source) error {
	if n.active != nil {
		n.CloseRoot()
	}
	n.lastSelected = nil
	return n.tree.Reconfigure(src)
}

// Splice attaches completed pipe output below item and opens it.
func (n *Navigator) Splice(item *menu.Item, doc []byte) error {
	parent := item.Menu()
	if parent == nil || !n.tree.Contains(parent) || !parent.Enabled {
		diag.Report(n.diag, diag.KindStaleParent, fmt.Sprintf("[pipemenu %s] parent menu already closed", item.PipeID), nil)
		return ErrStaleParent
	}
	item.Submenu = ""
	m, err := n.tree.BuildPipeMenu(item, doc)
	if err != nil {
		diag.Report(n.diag, diag.KindMalformedOutput, err.Error(), map[string]interface{}{"id": item.PipeID})
		return err
	}
	n.tree.UpdateWidths()
	x, y := n.layout.SubmenuPosition(item, parent.Align)
	// A failed placement is diagnosed by the engine; the menu still opens.
	_ = n.layout.Configure(m, x, y, parent.Align)
	n.tree.Validate()
	m.Enabled = true
	parent.Selection.Menu = m.ID
	return nil
}

// OpenPath returns the enabled menus from the active menu down the chain of
// open children.
func (n *Navigator) OpenPath() []*menu.Menu {
	var path []*menu.Menu
	seen := map[*menu.Menu]bool{}
	for m := n.active; m != nil && m.Enabled && !seen[m]; {
		seen[m] = true
		path = append(path, m)
		child, ok := n.tree.Get(m.Selection.Menu)
		if !ok {
			break
		}
		m = child
	}
	return path
}

// ItemAt returns the item under a point, searching the deepest open menu
// first.
func (n *Navigator) ItemAt(x, y int) *menu.Item {
	path := n.OpenPath()
	for i := len(path) - 1; i >= 0; i-- {
		m := path[i]
		if x < m.X || x >= m.X+m.Width {
			continue
		}
		for _, item := range m.Items {
			top := m.Y + item.Y
			if y >= top && y < top+item.Height {
				return item
			}
		}
	}
	return nil
}

func (n *Navigator) close(m *menu.Menu) {
	n.closeMenu(m, map[*menu.Menu]bool{})
}

func (n *Navigator) closeMenu(m *menu.Menu, seen map[*menu.Menu]bool) {
	if seen[m] {
		return
	}
	seen[m] = true
	m.Enabled = false
	m.Selection.Item = nil
	if child, ok := n.tree.Get(m.Selection.Menu); ok {
		n.closeMenu(child, seen)
	}
	m.Selection.Menu = ""
}

func (n *Navigator) closeAllSubmenus(m *menu.Menu, seen map[*menu.Menu]bool) {
	if seen[m] {
		return
	}
	seen[m] = true
	for _, item := range m.Items {
		if sub, ok := n.tree.Submenu(item); ok {
			sub.Enabled = false
			n.closeAllSubmenus(sub, seen)
		}
	}
	m.Selection.Menu = ""
}

func (n *Navigator) destroyPipeMenus() {
	n.tree.DestroyPipeMenus()
	if n.lastSelected != nil && !n.tree.Contains(n.lastSelected.Menu()) {
		n.lastSelected = nil
	}
}
