package menu

import (
	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/diag"
)

// Validate removes every action that cannot be executed and reports it.
// Valid actions keep their order. It returns how many actions were removed.
func (t *Tree) Validate() int {
	removed := 0
	for _, m := range t.menus {
		for _, item := range m.Items {
			kept := item.Actions[:0]
			for _, a := range item.Actions {
				if err := action.Check(a); err != nil {
					removed++
					diag.Report(t.Diag, diag.KindInvalidAction, "removed invalid menu action: "+err.Error(), map[string]interface{}{
						"menu":   m.ID,
						"item":   item.Label,
						"action": a.Name,
					})
					continue
				}
				kept = append(kept, a)
			}
			for i := len(kept); i < len(item.Actions); i++ {
				item.Actions[i] = nil
			}
			item.Actions = kept
		}
	}
	return removed
}
