// Package layout places a menu and every submenu reachable from it inside
// the output that contains the requested point.
package layout

import (
	"errors"
	"fmt"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/menu"
)

// ErrNoOutput is returned when no output contains the requested point.
var ErrNoOutput = errors.New("not enough screen space")

// Rect is an axis-aligned box in layout coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the point lies inside the box.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Output is a screen region. Usable is relative to the output origin.
type Output struct {
	Name   string
	Box    Rect
	Usable Rect
}

// OutputLayout resolves the output containing a point.
type OutputLayout interface {
	OutputAt(x, y int) (Output, bool)
}

// StaticOutputs is a fixed list of outputs searched in order.
type StaticOutputs []Output

func (s StaticOutputs) OutputAt(x, y int) (Output, bool) {
	for _, o := range s {
		if o.Box.Contains(x, y) {
			return o, true
		}
	}
	return Output{}, false
}

// Engine positions menus of a tree.
type Engine struct {
	Tree    *menu.Tree
	Outputs OutputLayout
	Diag    diag.Sink
}

// Configure positions m at (x, y) and recurses into every item with a
// submenu. A menu linked from several items ends up beside the last one;
// callers re-position it when it is opened. The resolved alignment is stored on each menu so content added
// later opens in the same direction.
func (e *Engine) Configure(m *menu.Menu, x, y int, align menu.Align) error {
	return e.configure(m, x, y, align, map[*menu.Menu]bool{})
}

func (e *Engine) configure(m *menu.Menu, x, y int, align menu.Align, seen map[*menu.Menu]bool) error {
	if seen[m] {
		return nil
	}
	seen[m] = true
	defer delete(seen, m)

	var (
		out Output
		ok  bool
	)
	if e.Outputs != nil {
		out, ok = e.Outputs.OutputAt(x, y)
	}
	if !ok {
		diag.Report(e.Diag, diag.KindLayout, fmt.Sprintf("failed to position menu %s (%s) and its submenus: not enough screen space", m.ID, m.Label), map[string]interface{}{"x": x, "y": y})
		return fmt.Errorf("configure menu %q: %w", m.ID, ErrNoOutput)
	}
	ox := x - out.Box.X
	oy := y - out.Box.Y
	overlapX := e.Tree.Metrics.OverlapX

	if align == menu.AlignAuto {
		if ox+e.FullWidth(m) > out.Usable.Width {
			align = menu.AlignLeft
		} else {
			align = menu.AlignRight
		}
	}
	if oy+m.Height > out.Usable.Height {
		align = align&^menu.AlignBottom | menu.AlignTop
	} else {
		align = align&^menu.AlignTop | menu.AlignBottom
	}

	if align&menu.AlignLeft != 0 {
		x -= m.Width - overlapX
	}
	if align&menu.AlignTop != 0 {
		y -= m.Height
		if m.Parent != "" {
			// Submenus opening upwards hang from the bottom of their item.
			y += m.ItemHeight
		}
	}
	m.X, m.Y = x, y
	m.Align = align
	events.Layout.Configure(m.ID, x, y, align.String())

	for _, item := range m.Items {
		sub, ok := e.Tree.Submenu(item)
		if !ok {
			continue
		}
		sx, sy := e.SubmenuPosition(item, align)
		// A submenu that does not fit stays unpositioned; the rest of
		// the tree is still placed.
		_ = e.configure(sub, sx, sy, align, seen)
	}
	return nil
}

// SubmenuPosition returns the anchor of the submenu opened by item.
func (e *Engine) SubmenuPosition(item *menu.Item, align menu.Align) (int, int) {
	m := item.Menu()
	x := m.X
	if align&menu.AlignRight != 0 {
		x = m.X + m.Width - e.Tree.Metrics.OverlapX
	}
	y := m.Y + item.Y - e.Tree.Metrics.OverlapY
	return x, y
}

// FullWidth is the width of m plus its widest chain of submenus.
func (e *Engine) FullWidth(m *menu.Menu) int {
	return e.fullWidth(m, map[*menu.Menu]bool{})
}

func (e *Engine) fullWidth(m *menu.Menu, seen map[*menu.Menu]bool) int {
	if seen[m] {
		return 0
	}
	seen[m] = true
	defer delete(seen, m)

	widest := 0
	for _, item := range m.Items {
		sub, ok := e.Tree.Submenu(item)
		if !ok {
			continue
		}
		if w := e.fullWidth(sub, seen); w > widest {
			widest = w
		}
	}
	return m.Width - e.Tree.Metrics.OverlapX + widest
}
