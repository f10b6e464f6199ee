package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/format/table"
)

// Dump writes the menu id and everything reachable from it as an indented
// table of labels, targets and actions.
func (t *Tree) Dump(w io.Writer, id string) error {
	m, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("dump %q: %w", id, ErrNoMenu)
	}
	rows := [][]string{{m.ID, fmt.Sprintf("%dx%d", m.Width, m.Height), ""}}
	rows = t.dumpRows(rows, m, 1, map[*Menu]bool{m: true})
	for _, line := range table.Format(rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) dumpRows(rows [][]string, m *Menu, depth int, seen map[*Menu]bool) [][]string {
	indent := strings.Repeat("  ", depth)
	for _, item := range m.Items {
		if item.Separator {
			rows = append(rows, []string{indent + "--", "", ""})
			continue
		}
		target := ""
		switch {
		case item.IsPipe():
			target = "| " + item.Execute
		case item.Submenu != "":
			target = "> " + item.Submenu
		}
		rows = append(rows, []string{indent + item.Label, target, formatActions(item.Actions)})
		sub, ok := t.Submenu(item)
		if !ok || seen[sub] {
			continue
		}
		seen[sub] = true
		rows = t.dumpRows(rows, sub, depth+1, seen)
	}
	return rows
}

func formatActions(actions []*action.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		args := make([]string, 0, a.Args.Len())
		for _, k := range a.Args.Keys() {
			v, _ := a.Args.Get(k)
			args = append(args, k+"="+v)
		}
		if len(args) == 0 {
			parts = append(parts, a.Name)
			continue
		}
		parts = append(parts, a.Name+"("+strings.Join(args, " ")+")")
	}
	return strings.Join(parts, ", ")
}
