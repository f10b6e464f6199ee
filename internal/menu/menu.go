package menu

import (
	"errors"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/mattn/go-runewidth"
)

// Arrow is appended to items that open a submenu.
const Arrow = "›"

// Well-known top-level menu ids.
const (
	RootMenuID      = "root-menu"
	ClientMenuID    = "client-menu"
	WorkspacesID    = "workspaces"
	pipeRootElement = "openbox_pipe_menu"
)

var (
	// ErrDuplicateID reports a menu id that is already registered.
	ErrDuplicateID = errors.New("menu id already exists")
	// ErrEmptyID rejects menus that could never be looked up.
	ErrEmptyID = errors.New("menu id is empty")
	// ErrNoMenu is returned for operations on a menu or item that is no
	// longer part of the tree.
	ErrNoMenu = errors.New("menu not found")
)

// Align is the opening direction of a menu, resolved at configure time.
type Align uint8

const (
	AlignAuto   Align = 0
	AlignLeft   Align = 1 << 0
	AlignRight  Align = 1 << 1
	AlignTop    Align = 1 << 2
	AlignBottom Align = 1 << 3
)

func (a Align) String() string {
	if a == AlignAuto {
		return "auto"
	}
	s := ""
	if a&AlignTop != 0 {
		s += "top"
	}
	if a&AlignBottom != 0 {
		s += "bottom"
	}
	if a&AlignLeft != 0 {
		s += "-left"
	}
	if a&AlignRight != 0 {
		s += "-right"
	}
	return s
}

// Metrics holds the theme geometry used to size menus and items.
type Metrics struct {
	MinWidth           int
	MaxWidth           int
	PaddingX           int
	PaddingY           int
	SeparatorThickness int
	SeparatorPaddingW  int
	SeparatorPaddingH  int
	OverlapX           int
	OverlapY           int
}

// Measurer measures text in the menu font.
type Measurer interface {
	Width(text string) int
	Height() int
}

// CellMeasurer measures text in terminal cells; every line is one cell high.
type CellMeasurer struct{}

func (CellMeasurer) Width(text string) int { return runewidth.StringWidth(text) }

func (CellMeasurer) Height() int { return 1 }

// Selection is the per-menu highlight and open child.
type Selection struct {
	// Item is the highlighted item, always one of the menu's own items.
	Item *Item
	// Menu is the id of the open child menu.
	Menu string
}

// Menu is a node of the menu tree. Parent and Selection.Menu are ids
// resolved through the owning Tree and may resolve to nothing.
type Menu struct {
	ID         string
	Label      string
	Items      []*Item
	Width      int
	Height     int
	ItemHeight int
	Parent     string
	IsPipe     bool
	Align      Align
	X, Y       int
	Enabled    bool
	Selection  Selection
	// TriggeredBy is the external context (usually a window) the menu was
	// opened for. Submenus inherit it when they are shown.
	TriggeredBy interface{}
}

// Item is a menu entry. Execute and PipeID are set together on pipe items.
type Item struct {
	Label       string
	NativeWidth int
	Width       int
	Height      int
	// Y is the item's vertical offset within its menu.
	Y int
	// MaxWidth constrains the rendered label; zero means unconstrained.
	MaxWidth   int
	Selectable bool
	Separator  bool
	Arrow      bool
	Actions    []*action.Action
	Submenu    string
	Execute    string
	PipeID     string

	menu *Menu
}

// Menu returns the menu owning the item.
func (i *Item) Menu() *Menu { return i.menu }

// IsPipe reports whether the item generates its submenu from a command.
func (i *Item) IsPipe() bool { return i.Execute != "" }

// Index returns the position of item in the menu, or -1.
func (m *Menu) Index(item *Item) int {
	for i, it := range m.Items {
		if it == item {
			return i
		}
	}
	return -1
}

// FirstSelectable returns the first selectable item or nil.
func (m *Menu) FirstSelectable() *Item {
	for _, it := range m.Items {
		if it.Selectable {
			return it
		}
	}
	return nil
}

// Source yields configuration documents in parse order.
type Source interface {
	Each(fn func(name string, data []byte) error) (int, error)
}
