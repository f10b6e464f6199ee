package menu

import (
	"fmt"
	"strings"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/markup"
)

// builder is the cursor threaded through one document walk.
type builder struct {
	tree   *Tree
	inItem bool
	menu   *Menu
	item   *Item
	action *action.Action
	level  int
	pipe   bool
}

// Parse walks a configuration document and adds its menus to the tree.
// Nothing is added when the document does not parse.
func (t *Tree) Parse(data []byte) error {
	root, err := markup.ParseBytes(data)
	if err != nil {
		return err
	}
	b := &builder{tree: t}
	b.walk(root)
	return nil
}

func (b *builder) report(kind diag.Kind, format string, args ...interface{}) {
	diag.Report(b.tree.Diag, kind, fmt.Sprintf(format, args...), nil)
}

// walk dispatches an element by name. The document root is walked like any
// other element.
func (b *builder) walk(n *markup.Node) {
	switch strings.ToLower(n.Name) {
	case "menu":
		b.handleMenu(n)
	case "separator":
		b.handleSeparator(n)
	case "item":
		b.inItem = true
		b.traverse(n)
		b.inItem = false
	default:
		b.traverse(n)
	}
}

func (b *builder) traverse(n *markup.Node) {
	b.emitElement(n)
	for _, a := range n.Attrs {
		if a.Value == "" {
			continue
		}
		b.entry(n.AttrPath(a.Name), a.Value)
	}
	for _, child := range n.Children {
		b.walk(child)
	}
}

func (b *builder) emitElement(n *markup.Node) {
	path := n.Path()
	if markup.LegacyContent(path) {
		b.entry(path, n.Content())
		return
	}
	if text := strings.TrimSpace(n.Text); text != "" {
		b.entry(path, text)
	}
}

func (b *builder) entry(path, content string) {
	path = markup.StripSuffix(path, ".openbox_menu")
	path = markup.StripSuffix(path, "."+pipeRootElement)
	if markup.Debug() {
		logging.Info("%s: %s", path, content)
	}
	events.Menu.Node(path, content)
	if b.inItem {
		b.fillItem(path, content)
	}
}

func (b *builder) fillItem(path, content string) {
	// Top-level pipe menu items have no enclosing <menu>.
	path = markup.StripSuffix(path, ".item.menu")
	path = markup.StripSuffix(path, ".item")

	switch {
	case path == "label":
		if b.menu == nil {
			b.report(diag.KindItemContext, "item %q is not inside a menu", content)
			return
		}
		b.item = b.tree.newItem(b.menu, content, false)
		b.action = nil
	case b.item == nil || b.item.Separator:
		b.report(diag.KindItemContext, "expect <item label=\"\"> element first. nodename: '%s' content: '%s'", path, content)
	case path == "icon":
	case path == "name.action":
		b.action = action.New(content)
		b.item.Actions = append(b.item.Actions, b.action)
	case b.action == nil:
		b.report(diag.KindItemContext, "expect <action name=\"\"> element first. nodename: '%s' content: '%s'", path, content)
	default:
		b.action.SetArg(path, content)
	}
}

// handleMenu covers the three roles of a <menu> element: pipe menu item,
// (sub)menu definition and link to a menu defined elsewhere.
func (b *builder) handleMenu(n *markup.Node) {
	label, hasLabel := n.Attr("label")
	execute, hasExecute := n.Attr("execute")
	id, hasID := n.Attr("id")
	if hasID && id == "" {
		b.report(diag.KindItemContext, "menu %q has an empty id; skipping", label)
		return
	}

	switch {
	case hasExecute && hasLabel && hasID:
		if b.menu == nil {
			b.report(diag.KindItemContext, "pipe menu %q is not inside a menu", id)
			return
		}
		b.item = b.tree.newItem(b.menu, label, true)
		b.item.Execute = execute
		b.item.PipeID = id
		b.action = nil
	case (hasLabel && hasID) || b.topLevelDefinition(n, hasID):
		b.define(n, id, label)
	case hasID:
		b.link(id)
	}
}

// topLevelDefinition matches <menu id=""> directly below the document root.
// Pipe menus have their own hierarchy and never qualify.
func (b *builder) topLevelDefinition(n *markup.Node, hasID bool) bool {
	if b.level > 0 {
		return false
	}
	return hasID && n.Parents() == 2
}

func (b *builder) define(n *markup.Node, id, label string) {
	if _, exists := b.tree.Get(id); exists {
		b.report(diag.KindDuplicateID, "menu id %s already exists; skipping definition", id)
		return
	}
	var item *Item
	if b.level > 0 && b.menu != nil {
		item = b.tree.newItem(b.menu, label, true)
		b.item = item
		b.action = nil
	}
	m, err := b.tree.CreateMenu(id, label, b.menu, b.pipe)
	if err != nil {
		return
	}
	if item != nil {
		item.Submenu = m.ID
	}
	parent := b.menu
	b.level++
	b.menu = m
	b.traverse(n)
	b.menu = parent
	b.level--
}

func (b *builder) link(id string) {
	if b.menu == nil {
		b.report(diag.KindItemContext, "link to menu %q is not inside a menu", id)
		return
	}
	if b.pipe || b.menu.IsPipe {
		b.report(diag.KindPipeLink, "cannot link to static menu %q from pipemenu", id)
		return
	}
	target, ok := b.tree.Get(id)
	if !ok {
		b.report(diag.KindUnresolvedMenu, "no menu with id '%s'", id)
		return
	}
	b.item = b.tree.newItem(b.menu, target.Label, true)
	b.item.Submenu = target.ID
	b.action = nil
}

func (b *builder) handleSeparator(n *markup.Node) {
	if b.menu == nil {
		b.report(diag.KindItemContext, "separator is not inside a menu")
		return
	}
	label, _ := n.Attr("label")
	b.item = b.tree.newSeparator(b.menu, label)
}

func (t *Tree) newItem(m *Menu, label string, arrow bool) *Item {
	if m.ItemHeight == 0 {
		m.ItemHeight = t.Measure.Height() + 2*t.Metrics.PaddingY
	}
	item := &Item{
		Label:      label,
		Height:     m.ItemHeight,
		Y:          m.Height,
		Width:      m.Width,
		Selectable: true,
		Arrow:      arrow,
		menu:       m,
	}
	item.NativeWidth = t.Measure.Width(label)
	if arrow {
		item.NativeWidth += t.Measure.Width(Arrow)
	}
	m.Height += item.Height
	m.Items = append(m.Items, item)
	return item
}

func (t *Tree) newSeparator(m *Menu, label string) *Item {
	item := &Item{
		Label:     label,
		Height:    t.Metrics.SeparatorThickness + 2*t.Metrics.SeparatorPaddingH,
		Y:         m.Height,
		Width:     m.Width,
		Separator: true,
		menu:      m,
	}
	m.Height += item.Height
	m.Items = append(m.Items, item)
	return item
}
