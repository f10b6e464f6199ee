package navigator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/layout"
	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/navigator"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
	"github.com/atomicstack/wmmenu/internal/testutil"
)

const config = `<openbox_menu>
<menu id="root-menu">
  <item label="Terminal"><action name="Execute" command="xterm"/></item>
  <separator/>
  <menu id="apps" label="Apps">
    <item label="Editor"><action name="Execute" command="vim"/></item>
    <item label="Browser"><action name="Execute" command="firefox"/></item>
  </menu>
  <menu id="gen" label="Generated" execute="gen-cmd"/>
  <item label="Exit"><action name="Exit"/></item>
</menu>
</openbox_menu>`

type call struct {
	event   string
	actions []string
	by      interface{}
}

type recorder struct {
	calls []call
	nav   *navigator.Navigator
}

func (r *recorder) Run(actions []*action.Action, triggeredBy interface{}) {
	names := []string{}
	for _, a := range actions {
		names = append(names, a.Name)
	}
	// The menu must already be closed when actions run.
	state := "open"
	if r.nav.Active() == nil || !r.nav.Active().Enabled {
		state = "closed"
	}
	r.calls = append(r.calls, call{event: "run:" + state, actions: names, by: triggeredBy})
}

func (r *recorder) UpdateFocus() {
	r.calls = append(r.calls, call{event: "focus"})
}

type fixture struct {
	nav     *navigator.Navigator
	tree    *menu.Tree
	rec     *diag.Recorder
	calls   *recorder
	reactor *testutil.ManualReactor
	spawner *testutil.FakeSpawner
	pipes   *pipemenu.Controller
	root    *menu.Menu
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &diag.Recorder{}
	tree := menu.NewTree(testutil.Metrics, testutil.RuneMeasurer{}, rec)
	if err := tree.Parse([]byte(config)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tree.UpdateWidths()
	tree.Validate()
	engine := &layout.Engine{Tree: tree, Outputs: testutil.Screen(80, 24), Diag: rec}
	reactor := &testutil.ManualReactor{}
	spawner := &testutil.FakeSpawner{}
	pipes := &pipemenu.Controller{Tree: tree, Reactor: reactor, Spawner: spawner, Diag: rec}
	calls := &recorder{}
	nav := navigator.New(navigator.Options{
		Tree:     tree,
		Layout:   engine,
		Pipes:    pipes,
		Executor: calls,
		Focus:    calls,
		Diag:     rec,
	})
	calls.nav = nav
	root, _ := tree.Get("root-menu")
	return &fixture{nav: nav, tree: tree, rec: rec, calls: calls, reactor: reactor, spawner: spawner, pipes: pipes, root: root}
}

func (f *fixture) open(t *testing.T) {
	t.Helper()
	if err := f.nav.OpenRoot(f.root, 2, 2, "view"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
}

func (f *fixture) menu(t *testing.T, id string) *menu.Menu {
	t.Helper()
	m, ok := f.tree.Get(id)
	if !ok {
		t.Fatalf("menu %q missing", id)
	}
	return m
}

func TestOpenRootActivatesMenu(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	if f.nav.Active() != f.root || !f.root.Enabled || f.nav.Mode() != navigator.ModeMenu {
		t.Fatalf("root not active")
	}
	if f.root.Selection.Item != nil || f.root.Selection.Menu != "" {
		t.Fatalf("expected a fresh selection")
	}
	if f.root.TriggeredBy != "view" {
		t.Fatalf("expected triggering context recorded")
	}
}

func TestOpenRootLayoutFailure(t *testing.T) {
	f := newFixture(t)
	err := f.nav.OpenRoot(f.root, 500, 500, nil)
	if !errors.Is(err, layout.ErrNoOutput) {
		t.Fatalf("expected layout failure, got %v", err)
	}
	if f.nav.Active() != nil || f.root.Enabled || f.nav.Mode() != navigator.ModePassthrough {
		t.Fatalf("menu must stay hidden")
	}
}

func TestSelectOpensSubmenuAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	appsItem := f.root.Items[2]
	f.nav.Select(appsItem)
	apps := f.menu(t, "apps")
	if f.root.Selection.Item != appsItem || f.root.Selection.Menu != "apps" || !apps.Enabled {
		t.Fatalf("submenu not opened")
	}
	if apps.TriggeredBy != "view" || apps.Parent != "root-menu" {
		t.Fatalf("submenu context not refreshed")
	}
	apps.Selection.Item = apps.Items[1]
	f.nav.Select(appsItem)
	if apps.Selection.Item != apps.Items[1] {
		t.Fatalf("selecting the same item twice must not churn state")
	}

	f.nav.Select(f.root.Items[0])
	if apps.Enabled || f.root.Selection.Menu != "" || apps.Selection.Item != nil {
		t.Fatalf("previous submenu must close")
	}
}

func TestSelectSeparatorOnlyMovesMarker(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.Select(f.root.Items[0])
	f.nav.Select(f.root.Items[1])
	if f.root.Selection.Item != f.root.Items[0] {
		t.Fatalf("separator must not take the highlight")
	}
}

func TestNextPreviousWrap(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.SelectNext()
	if f.root.Selection.Item != f.root.Items[0] {
		t.Fatalf("expected first item, got %v", f.root.Selection.Item)
	}
	f.nav.SelectNext()
	if f.root.Selection.Item != f.root.Items[2] {
		t.Fatalf("expected separator skipped")
	}
	f.nav.SelectPrevious()
	f.nav.SelectPrevious()
	if f.root.Selection.Item != f.root.Items[4] {
		t.Fatalf("expected wrap to last item, got %q", f.root.Selection.Item.Label)
	}
	f.nav.SelectNext()
	if f.root.Selection.Item != f.root.Items[0] {
		t.Fatalf("expected wrap to first item, got %q", f.root.Selection.Item.Label)
	}
}

func TestSubmenuEnterAndLeave(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.Select(f.root.Items[2])
	f.nav.SubmenuEnter()
	apps := f.menu(t, "apps")
	if apps.Selection.Item != apps.Items[0] || f.nav.SelectionLeaf() != apps {
		t.Fatalf("expected first submenu item selected")
	}
	f.nav.SelectNext()
	if apps.Selection.Item != apps.Items[1] {
		t.Fatalf("keyboard navigation must act on the submenu")
	}
	f.nav.SubmenuLeave()
	if apps.Selection.Item != nil || !apps.Enabled || f.root.Selection.Item != f.root.Items[2] {
		t.Fatalf("leave must close one level and keep the parent item")
	}
	if f.nav.SelectionLeaf() != f.root {
		t.Fatalf("expected root as selection leaf")
	}
}

func TestActivateClosesThenRuns(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.Select(f.root.Items[2])
	f.nav.SubmenuEnter()
	if !f.nav.CallSelectedActions() {
		t.Fatalf("expected activation")
	}
	if len(f.calls.calls) != 2 || f.calls.calls[0].event != "focus" || f.calls.calls[1].event != "run:closed" {
		t.Fatalf("unexpected call order %+v", f.calls.calls)
	}
	if got := f.calls.calls[1]; strings.Join(got.actions, ",") != "Execute" || got.by != "view" {
		t.Fatalf("unexpected run %+v", got)
	}
	apps := f.menu(t, "apps")
	if f.nav.Active() != nil || f.root.Enabled || apps.Enabled || f.nav.Mode() != navigator.ModePassthrough {
		t.Fatalf("menu tree must be closed")
	}
}

func TestActivateIgnoresSubmenuAndSeparator(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	if f.nav.Activate(f.root.Items[1]) || f.nav.Activate(f.root.Items[2]) || f.nav.Activate(f.root.Items[3]) {
		t.Fatalf("separators, submenus and pipe items must not activate")
	}
	if len(f.calls.calls) != 0 || f.nav.Active() != f.root {
		t.Fatalf("nothing should have happened")
	}
}

func TestCloseRootClearsOpenPath(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.Select(f.root.Items[2])
	f.nav.SubmenuEnter()
	apps := f.menu(t, "apps")
	f.nav.CloseRoot()
	if f.root.Enabled || apps.Enabled {
		t.Fatalf("every menu on the open path must be disabled")
	}
	if f.root.Selection.Item != nil || f.root.Selection.Menu != "" || apps.Selection.Item != nil {
		t.Fatalf("selection pointers must clear")
	}
	f.open(t)
	if f.root.Selection.Item != nil || f.nav.SelectionLeaf() != f.root {
		t.Fatalf("reopened menu must start without highlight")
	}
	f.nav.Select(f.root.Items[2])
	if !apps.Enabled {
		t.Fatalf("re-selecting after reopen must work")
	}
}

func TestPipeMenuLifecycle(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	genItem := f.root.Items[3]
	f.nav.Select(genItem)
	if !f.nav.Pending() || len(f.spawner.Commands) != 1 {
		t.Fatalf("expected pipe request started")
	}
	f.nav.Select(f.root.Items[0])
	if f.root.Selection.Item != genItem {
		t.Fatalf("selection must not change while a pipe menu is pending")
	}
	f.reactor.Feed(`<openbox_pipe_menu><item label="one"><action name="Exit"/></item><item label="two"><action name="Nope"/></item></openbox_pipe_menu>`)
	f.reactor.End()
	if f.nav.Pending() {
		t.Fatalf("request must be finished")
	}
	gen := f.menu(t, "gen")
	if !gen.IsPipe || !gen.Enabled || genItem.Submenu != "gen" || f.root.Selection.Menu != "gen" {
		t.Fatalf("pipe menu not spliced and opened")
	}
	if gen.TriggeredBy != "view" || gen.Align != f.root.Align {
		t.Fatalf("pipe menu must inherit context and alignment")
	}
	if gen.X != f.root.X+f.root.Width || gen.Y != f.root.Y+genItem.Y {
		t.Fatalf("pipe menu not anchored at its item: %d,%d", gen.X, gen.Y)
	}
	if len(gen.Items[1].Actions) != 0 {
		t.Fatalf("validation must run on spliced content")
	}

	// Navigating away keeps the cached menu.
	f.nav.Select(f.root.Items[0])
	f.nav.Select(genItem)
	if len(f.spawner.Commands) != 1 || !gen.Enabled {
		t.Fatalf("cached pipe menu must be reused")
	}

	f.nav.CloseRoot()
	if _, ok := f.tree.Get("gen"); ok || genItem.Submenu != "" {
		t.Fatalf("pipe menus must be destroyed when the interaction ends")
	}
}

func TestPipeMenuStaleParent(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	f.nav.Select(f.root.Items[3])
	f.nav.CloseRoot()
	f.reactor.Feed(`<openbox_pipe_menu/>`)
	f.reactor.End()
	if _, ok := f.tree.Get("gen"); ok || f.root.Items[3].Submenu != "" {
		t.Fatalf("result for a closed menu must be discarded")
	}
	if f.rec.Count(diag.KindStaleParent) != 1 {
		t.Fatalf("expected stale-parent diagnostic, got %v", f.rec.All())
	}
}

func TestPipeMenuOverflowLeavesNoSubmenu(t *testing.T) {
	f := newFixture(t)
	f.pipes.Limit = 4
	f.open(t)
	genItem := f.root.Items[3]
	f.nav.Select(genItem)
	f.reactor.Feed("<openbox_pipe_menu>")
	if f.spawner.Last().Terminated != 1 || genItem.Submenu != "" || f.nav.Pending() {
		t.Fatalf("overflow must terminate and leave the item empty")
	}
	f.nav.Select(f.root.Items[0])
	f.nav.Select(genItem)
	if len(f.spawner.Commands) != 2 {
		t.Fatalf("re-selecting must retry manually")
	}
}

func TestItemAt(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	if got := f.nav.ItemAt(f.root.X, f.root.Y+4); got != f.root.Items[4] {
		t.Fatalf("unexpected hit %v", got)
	}
	f.nav.Select(f.root.Items[2])
	apps := f.menu(t, "apps")
	if got := f.nav.ItemAt(apps.X+1, apps.Y+1); got != apps.Items[1] {
		t.Fatalf("expected submenu hit, got %v", got)
	}
	if got := f.nav.ItemAt(79, 0); got != nil {
		t.Fatalf("expected miss, got %v", got)
	}
}

func TestReconfigureRebuildsTree(t *testing.T) {
	f := newFixture(t)
	f.open(t)
	if err := f.nav.Reconfigure(nil); err != nil {
		t.Fatalf("reconfigure failed: %v", err)
	}
	if f.nav.Active() != nil {
		t.Fatalf("reconfigure must close the open menu")
	}
	root, ok := f.tree.Get("root-menu")
	if !ok || root == f.root || len(root.Items) != 2 {
		t.Fatalf("expected default tree after reconfigure")
	}
}

func TestSharedSubmenuOpensBesideSelectedItem(t *testing.T) {
	rec := &diag.Recorder{}
	tree := menu.NewTree(testutil.Metrics, testutil.RuneMeasurer{}, rec)
	doc := `<openbox_menu>
<menu id="shared" label="Shared"><item label="One"/></menu>
<menu id="r2">
  <menu id="shared"/>
  <item label="A"><action name="Exit"/></item>
  <item label="B"><action name="Exit"/></item>
  <menu id="shared"/>
</menu>
</openbox_menu>`
	if err := tree.Parse([]byte(doc)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tree.UpdateWidths()
	tree.Validate()
	nav := navigator.New(navigator.Options{
		Tree:   tree,
		Layout: &layout.Engine{Tree: tree, Outputs: testutil.Screen(80, 24), Diag: rec},
		Diag:   rec,
	})
	r2, _ := tree.Get("r2")
	shared, _ := tree.Get("shared")
	if err := nav.OpenRoot(r2, 2, 2, "view"); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	nav.Select(r2.Items[3])
	if !shared.Enabled || r2.Selection.Menu != "shared" {
		t.Fatalf("shared menu not opened")
	}
	if shared.Y != 5 || shared.X != r2.X+r2.Width {
		t.Fatalf("expected shared menu beside the fourth item at (%d,5), got (%d,%d)", r2.X+r2.Width, shared.X, shared.Y)
	}

	nav.Select(r2.Items[0])
	if !shared.Enabled || shared.Y != 2 {
		t.Fatalf("expected shared menu beside the first item at y=2, got y=%d", shared.Y)
	}
}
