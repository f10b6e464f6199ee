package menu

import (
	"fmt"

	"github.com/atomicstack/wmmenu/internal/markup"
)

// BuildPipeMenu builds the submenu of a pipe item from the output of its
// command. The document has no enclosing <menu>, so the menu itself is
// created here under the item's pipe id and filled one level deep. On a
// parse failure nothing is added and the item keeps no submenu.
//
// Sizing, placement and validation are left to the caller.
func (t *Tree) BuildPipeMenu(item *Item, doc []byte) (*Menu, error) {
	if item == nil || !item.IsPipe() {
		return nil, fmt.Errorf("build pipe menu: item has no command")
	}
	parent := item.Menu()
	if !t.Contains(parent) {
		return nil, fmt.Errorf("build pipe menu %q: %w", item.PipeID, ErrNoMenu)
	}
	root, err := markup.ParseBytes(doc)
	if err != nil {
		item.Submenu = ""
		return nil, fmt.Errorf("build pipe menu %q: %w", item.PipeID, err)
	}
	m, err := t.CreateMenu(item.PipeID, "", parent, true)
	if err != nil {
		item.Submenu = ""
		return nil, err
	}
	m.TriggeredBy = parent.TriggeredBy

	b := &builder{tree: t, menu: m, level: 1, pipe: true}
	b.walk(root)

	item.Submenu = m.ID
	return m, nil
}
