// Package action models the named actions attached to menu items and decides
// which of them are well formed. Executing actions is somebody else's job.
package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Action is a canonical action name plus its ordered arguments.
type Action struct {
	Name  string
	Known bool
	Args  Args
}

// Args is an insertion-ordered string mapping.
type Args struct {
	keys   []string
	values map[string]string
}

// Set stores value under key, keeping the position of an existing key.
func (a *Args) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a Args) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns argument names in insertion order.
func (a Args) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a.keys) }

// Map returns a copy of the arguments.
func (a Args) Map() map[string]string {
	out := make(map[string]string, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

type signature struct {
	// anyOf lists alternative argument sets; one of them must be complete.
	anyOf [][]string
}

var catalogue = map[string]signature{
	"None":                       {},
	"Close":                      {},
	"Kill":                       {},
	"Debug":                      {},
	"Execute":                    {anyOf: [][]string{{"command"}}},
	"Exit":                       {},
	"MoveToEdge":                 {anyOf: [][]string{{"direction"}}},
	"ToggleSnapToEdge":           {anyOf: [][]string{{"direction"}}},
	"SnapToEdge":                 {anyOf: [][]string{{"direction"}}},
	"GrowToEdge":                 {anyOf: [][]string{{"direction"}}},
	"ShrinkToEdge":               {anyOf: [][]string{{"direction"}}},
	"NextWindow":                 {},
	"PreviousWindow":             {},
	"Reconfigure":                {},
	"ShowMenu":                   {anyOf: [][]string{{"menu"}}},
	"ToggleMaximize":             {},
	"Maximize":                   {},
	"UnMaximize":                 {},
	"ToggleFullscreen":           {},
	"SetDecorations":             {},
	"ToggleDecorations":          {},
	"ToggleAlwaysOnTop":          {},
	"ToggleAlwaysOnBottom":       {},
	"ToggleOmnipresent":          {},
	"Focus":                      {},
	"Unfocus":                    {},
	"Iconify":                    {},
	"Move":                       {},
	"Raise":                      {},
	"Lower":                      {},
	"Resize":                     {},
	"ResizeRelative":             {},
	"MoveTo":                     {},
	"ResizeTo":                   {},
	"MoveToCursor":               {},
	"MoveRelative":               {},
	"SendToDesktop":              {anyOf: [][]string{{"to"}}},
	"GoToDesktop":                {anyOf: [][]string{{"to"}}},
	"ToggleSnapToRegion":         {anyOf: [][]string{{"region"}}},
	"SnapToRegion":               {anyOf: [][]string{{"region"}}},
	"ToggleKeybinds":             {},
	"FocusOutput":                {anyOf: [][]string{{"output"}, {"direction"}}},
	"MoveToOutput":               {anyOf: [][]string{{"output"}, {"direction"}}},
	"FitToOutput":                {},
	"ToggleShowDesktop":          {},
	"AutoPlace":                  {},
	"Shade":                      {},
	"Unshade":                    {},
	"ToggleShade":                {},
	"EnableScrollWheelEmulation": {},
	"ToggleMagnify":              {},
	"ZoomIn":                     {},
	"ZoomOut":                    {},
	"WarpCursor":                 {},
	"HideCursor":                 {},
}

var (
	lowerNames = func() map[string]string {
		m := make(map[string]string, len(catalogue))
		for name := range catalogue {
			m[strings.ToLower(name)] = name
		}
		return m
	}()
	sortedNames = func() []string {
		names := make([]string, 0, len(catalogue))
		for name := range catalogue {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}()
)

// New creates an action, canonicalising known names case-insensitively.
// Unknown names are kept so validation can report and prune them.
func New(name string) *Action {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := lowerNames[strings.ToLower(trimmed)]; ok {
		return &Action{Name: canonical, Known: true}
	}
	return &Action{Name: trimmed}
}

// SetArg records an argument from a path such as "command.action". Deeper
// paths keep only the element name closest to the argument.
func (a *Action) SetArg(path, value string) {
	key := path
	if idx := strings.Index(key, ".action"); idx >= 0 {
		key = key[:idx]
	}
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	key = strings.ToLower(key)
	if a.Name == "Execute" && key == "execute" {
		// <execute> is the deprecated openbox spelling of <command>.
		key = "command"
	}
	a.Args.Set(key, value)
}

// Valid reports whether the action can be executed.
func Valid(a *Action) bool {
	return Check(a) == nil
}

// Check explains why an action is invalid.
func Check(a *Action) error {
	if a == nil {
		return fmt.Errorf("nil action")
	}
	s, ok := catalogue[a.Name]
	if !ok {
		if hint := Suggest(a.Name); hint != "" {
			return fmt.Errorf("unknown action %q (did you mean %q?)", a.Name, hint)
		}
		return fmt.Errorf("unknown action %q", a.Name)
	}
	if len(s.anyOf) == 0 {
		return nil
	}
	for _, set := range s.anyOf {
		if a.hasAll(set) {
			return nil
		}
	}
	missing := make([]string, 0, len(s.anyOf))
	for _, set := range s.anyOf {
		missing = append(missing, strings.Join(set, "+"))
	}
	return fmt.Errorf("action %q requires argument %s", a.Name, strings.Join(missing, " or "))
}

func (a *Action) hasAll(keys []string) bool {
	for _, k := range keys {
		v, ok := a.Args.Get(k)
		if !ok || strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Suggest returns the closest known action name, or "" if nothing is close.
func Suggest(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, sortedNames)
	if len(ranks) == 0 {
		// Try the other direction for typos that drop characters.
		best, bestDist := "", -1
		for _, candidate := range sortedNames {
			d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(candidate))
			if bestDist < 0 || d < bestDist {
				best, bestDist = candidate, d
			}
		}
		if bestDist >= 0 && bestDist <= 2 {
			return best
		}
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// Names returns every known action name in sorted order.
func Names() []string {
	return append([]string(nil), sortedNames...)
}
