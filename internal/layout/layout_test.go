package layout

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/menu"
)

type runeMeasurer struct{}

func (runeMeasurer) Width(text string) int { return utf8.RuneCountInString(text) }

func (runeMeasurer) Height() int { return 1 }

func newEngine(t *testing.T, doc string, metrics menu.Metrics) (*Engine, *diag.Recorder) {
	t.Helper()
	rec := &diag.Recorder{}
	tree := menu.NewTree(metrics, runeMeasurer{}, rec)
	if err := tree.Parse([]byte(doc)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tree.UpdateWidths()
	screen := Rect{Width: 80, Height: 24}
	return &Engine{
		Tree:    tree,
		Outputs: StaticOutputs{{Name: "term", Box: screen, Usable: screen}},
		Diag:    rec,
	}, rec
}

func items(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(`<item label="entry"/>`)
	}
	return b.String()
}

const nested = `<openbox_menu><menu id="root-menu">
  <item label="first"/>
  <item label="second"/>
  <menu id="sub" label="more"><item label="inner"/><item label="inner2"/></menu>
</menu></openbox_menu>`

func TestConfigureOpensRightAndDown(t *testing.T) {
	e, _ := newEngine(t, nested, menu.Metrics{MinWidth: 10, MaxWidth: 30, PaddingX: 1, OverlapX: 1, OverlapY: 0})
	root, _ := e.Tree.Get("root-menu")
	if err := e.Configure(root, 5, 3, menu.AlignAuto); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if root.X != 5 || root.Y != 3 {
		t.Fatalf("unexpected root position %d,%d", root.X, root.Y)
	}
	if root.Align != menu.AlignRight|menu.AlignBottom {
		t.Fatalf("expected bottom-right, got %s", root.Align)
	}
	sub, _ := e.Tree.Get("sub")
	if sub.X != 5+12-1 || sub.Y != 3+2 {
		t.Fatalf("unexpected submenu position %d,%d", sub.X, sub.Y)
	}
	if sub.Align != root.Align {
		t.Fatalf("expected alignment to propagate, got %s", sub.Align)
	}
}

func TestConfigureUpwardAndLeftward(t *testing.T) {
	doc := `<openbox_menu><menu id="root-menu">` + items(10) + `</menu></openbox_menu>`
	e, _ := newEngine(t, doc, menu.Metrics{MinWidth: 20, MaxWidth: 30, PaddingX: 1})
	root, _ := e.Tree.Get("root-menu")
	if err := e.Configure(root, 70, 20, menu.AlignAuto); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if root.Align != menu.AlignLeft|menu.AlignTop {
		t.Fatalf("expected top-left, got %s", root.Align)
	}
	if root.X != 70-22 || root.Y != 20-10 {
		t.Fatalf("unexpected position %d,%d", root.X, root.Y)
	}
}

func TestConfigureSubmenuUpwardAnchorsAtItem(t *testing.T) {
	doc := `<openbox_menu><menu id="root-menu">
  <item label="first"/>
  <item label="second"/>
  <menu id="sub" label="more">` + items(4) + `</menu>
</menu></openbox_menu>`
	e, _ := newEngine(t, doc, menu.Metrics{MinWidth: 10, MaxWidth: 30})
	root, _ := e.Tree.Get("root-menu")
	if err := e.Configure(root, 0, 23, menu.AlignAuto); err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if root.Y != 20 || root.Align&menu.AlignTop == 0 {
		t.Fatalf("expected root to open upwards, got y=%d align=%s", root.Y, root.Align)
	}
	sub, _ := e.Tree.Get("sub")
	// anchor y is 20+2; four rows do not fit below, so the submenu hangs
	// upwards from the bottom of its item
	if sub.Align&menu.AlignTop == 0 || sub.Y != 22-4+1 {
		t.Fatalf("unexpected upward submenu y=%d align=%s", sub.Y, sub.Align)
	}
	if sub.X != root.Width {
		t.Fatalf("expected submenu to the right of its parent, got x=%d", sub.X)
	}
}

func TestConfigureWithoutOutput(t *testing.T) {
	e, rec := newEngine(t, nested, menu.Metrics{MinWidth: 10, MaxWidth: 30})
	root, _ := e.Tree.Get("root-menu")
	err := e.Configure(root, 200, 200, menu.AlignAuto)
	if !errors.Is(err, ErrNoOutput) {
		t.Fatalf("expected ErrNoOutput, got %v", err)
	}
	if rec.Count(diag.KindLayout) != 1 {
		t.Fatalf("expected layout diagnostic")
	}
	if root.Align != menu.AlignAuto {
		t.Fatalf("menu must stay unconfigured")
	}
}

func TestFullWidth(t *testing.T) {
	e, _ := newEngine(t, nested, menu.Metrics{MinWidth: 10, MaxWidth: 30, OverlapX: 2})
	root, _ := e.Tree.Get("root-menu")
	if got := e.FullWidth(root); got != (10-2)+(10-2) {
		t.Fatalf("unexpected full width %d", got)
	}
}
