package pipemenu_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
	"github.com/atomicstack/wmmenu/internal/testutil"
)

type recordingSplicer struct {
	items []*menu.Item
	docs  []string
}

func (s *recordingSplicer) Splice(item *menu.Item, doc []byte) error {
	s.items = append(s.items, item)
	s.docs = append(s.docs, string(doc))
	return nil
}

type fixture struct {
	tree     *menu.Tree
	item     *menu.Item
	reactor  *testutil.ManualReactor
	spawner  *testutil.FakeSpawner
	splicer  *recordingSplicer
	rec      *diag.Recorder
	ctrl     *pipemenu.Controller
	outcomes []string
}

func (f *fixture) ObservePipe(outcome string, _ time.Duration) {
	f.outcomes = append(f.outcomes, outcome)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &diag.Recorder{}
	tree := menu.NewTree(testutil.Metrics, testutil.RuneMeasurer{}, rec)
	doc := `<openbox_menu><menu id="root-menu"><menu id="gen" label="Generated" execute="gen-cmd"/></menu></openbox_menu>`
	if err := tree.Parse([]byte(doc)); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root, _ := tree.Get("root-menu")
	f := &fixture{
		tree:    tree,
		item:    root.Items[0],
		reactor: &testutil.ManualReactor{},
		spawner: &testutil.FakeSpawner{},
		splicer: &recordingSplicer{},
		rec:     rec,
	}
	f.ctrl = &pipemenu.Controller{
		Tree:     tree,
		Reactor:  f.reactor,
		Spawner:  f.spawner,
		Splicer:  f.splicer,
		Diag:     rec,
		Observer: f,
	}
	return f
}

func (f *fixture) assertClosed(t *testing.T, req *pipemenu.Request) {
	t.Helper()
	if req.State != pipemenu.StateClosed {
		t.Fatalf("expected closed request, got %s", req.State)
	}
	if !f.reactor.Read.Removed || !f.reactor.Timer.Removed {
		t.Fatalf("expected both sources removed")
	}
	if f.spawner.Last().Closed != 1 {
		t.Fatalf("expected process resources released once, got %d", f.spawner.Last().Closed)
	}
	if f.ctrl.Pending() {
		t.Fatalf("pending flag must clear")
	}
}

func TestStartCompletesAndSplices(t *testing.T) {
	f := newFixture(t)
	req, err := f.ctrl.Start(f.item)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if req.State != pipemenu.StateSpawned || !f.ctrl.Pending() || req.ID == "" {
		t.Fatalf("unexpected request %+v", req)
	}
	if f.spawner.Commands[0] != "gen-cmd" || f.reactor.Delay != pipemenu.Timeout {
		t.Fatalf("unexpected spawn %v delay %v", f.spawner.Commands, f.reactor.Delay)
	}
	f.reactor.Feed("  <openbox_pipe_menu>")
	if req.State != pipemenu.StateStreaming {
		t.Fatalf("expected streaming, got %s", req.State)
	}
	f.reactor.Feed("</openbox_pipe_menu>")
	f.reactor.End()

	if req.Outcome != pipemenu.StateComplete || req.Err != nil {
		t.Fatalf("expected complete, got %s (%v)", req.Outcome, req.Err)
	}
	if len(f.splicer.docs) != 1 || f.splicer.docs[0] != "  <openbox_pipe_menu></openbox_pipe_menu>" || f.splicer.items[0] != f.item {
		t.Fatalf("unexpected splice %v", f.splicer.docs)
	}
	f.assertClosed(t, req)
	if strings.Join(f.outcomes, ",") != "complete" {
		t.Fatalf("unexpected outcomes %v", f.outcomes)
	}
}

func TestOverflowTerminates(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Limit = 8
	req, err := f.ctrl.Start(f.item)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	f.reactor.Feed("<abcd")
	f.reactor.Feed("efghij")
	if req.Outcome != pipemenu.StateOverflow || !errors.Is(req.Err, pipemenu.ErrOverflow) {
		t.Fatalf("expected overflow, got %s", req.Outcome)
	}
	if f.spawner.Last().Terminated != 1 {
		t.Fatalf("expected subprocess terminated")
	}
	f.reactor.End()
	if len(f.splicer.docs) != 0 || f.item.Submenu != "" {
		t.Fatalf("overflow must leave the item without a submenu")
	}
	if f.rec.Count(diag.KindOversizedOutput) != 1 {
		t.Fatalf("expected oversized diagnostic")
	}
	f.assertClosed(t, req)
}

func TestMalformedOutput(t *testing.T) {
	f := newFixture(t)
	req, _ := f.ctrl.Start(f.item)
	f.reactor.Feed("not xml\n")
	f.reactor.End()
	if req.Outcome != pipemenu.StateMalformedOutput {
		t.Fatalf("expected malformed output, got %s", req.Outcome)
	}
	if f.rec.Count(diag.KindMalformedOutput) != 1 || len(f.splicer.docs) != 0 {
		t.Fatalf("expected diagnostic and no splice")
	}
	f.assertClosed(t, req)
}

func TestTimeoutTerminates(t *testing.T) {
	f := newFixture(t)
	req, _ := f.ctrl.Start(f.item)
	f.reactor.Feed("<openbox_pipe_menu>")
	f.reactor.Fire()
	if req.Outcome != pipemenu.StateTimeout || !errors.Is(req.Err, pipemenu.ErrTimeout) {
		t.Fatalf("expected timeout, got %s", req.Outcome)
	}
	if f.spawner.Last().Terminated != 1 || f.rec.Count(diag.KindTimeout) != 1 {
		t.Fatalf("expected termination and diagnostic")
	}
	f.reactor.End()
	if len(f.splicer.docs) != 0 {
		t.Fatalf("late end of stream must be ignored")
	}
	f.assertClosed(t, req)
}

func TestReadError(t *testing.T) {
	f := newFixture(t)
	req, _ := f.ctrl.Start(f.item)
	f.reactor.Fail(errors.New("boom"))
	if req.Outcome != pipemenu.StateProcessError || f.rec.Count(diag.KindProcessError) != 1 {
		t.Fatalf("expected process error, got %s", req.Outcome)
	}
	f.assertClosed(t, req)
}

func TestSecondActivationIgnoredWhilePending(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ctrl.Start(f.item); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.ctrl.Start(f.item); !errors.Is(err, pipemenu.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if len(f.spawner.Commands) != 1 {
		t.Fatalf("expected a single spawn, got %d", len(f.spawner.Commands))
	}
}

func TestDuplicateIDAbortsBeforeSpawn(t *testing.T) {
	f := newFixture(t)
	if _, err := f.tree.CreateMenu("gen", "", nil, false); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.ctrl.Start(f.item); !errors.Is(err, menu.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if len(f.spawner.Commands) != 0 || f.ctrl.Pending() {
		t.Fatalf("nothing must be spawned")
	}
	if f.rec.Count(diag.KindDuplicateID) != 1 {
		t.Fatalf("expected duplicate diagnostic")
	}
}

func TestSpawnFailure(t *testing.T) {
	f := newFixture(t)
	f.spawner.Err = errors.New("no such shell")
	if _, err := f.ctrl.Start(f.item); err == nil {
		t.Fatalf("expected spawn error")
	}
	if f.ctrl.Pending() || f.rec.Count(diag.KindProcessError) != 1 {
		t.Fatalf("expected diagnostic and no pending request")
	}
	if strings.Join(f.outcomes, ",") != "process-error" {
		t.Fatalf("unexpected outcomes %v", f.outcomes)
	}
}
