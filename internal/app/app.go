package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/wmmenu/internal/backend"
	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/layout"
	"github.com/atomicstack/wmmenu/internal/loader"
	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/metrics"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
	"github.com/atomicstack/wmmenu/internal/theme"
	"github.com/atomicstack/wmmenu/internal/ui"
	"github.com/atomicstack/wmmenu/internal/ui/command"
)

const watchInterval = 500 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	MenuPath      string
	Merge         bool
	ThemePath     string
	OpenMenu      string
	Workspaces    int
	Width         int
	Height        int
	X             int
	Y             int
	Watch         bool
	MetricsListen string
	Dump          bool
	Environ       map[string]string `json:"-"`
}

// Sources returns the menu files described by cfg. An explicit path
// disables the XDG lookup.
func Sources(cfg Config) loader.Source {
	if cfg.MenuPath != "" {
		return loader.Explicit(cfg.MenuPath)
	}
	return loader.Source{
		Paths: loader.Paths(loader.DefaultName, cfg.Environ),
		Merge: cfg.Merge,
	}
}

// watchPaths lists the files whose change should rebuild the tree.
func watchPaths(src loader.Source) []string {
	if src.Merge || len(src.Paths) == 0 {
		return src.Paths
	}
	return src.Paths[:1]
}

// BuildTree loads the theme and the menu files. Theme and source failures
// are logged; the returned tree is always usable.
func BuildTree(cfg Config, sink diag.Sink) (*menu.Tree, theme.Theme) {
	th, err := theme.Load(cfg.ThemePath)
	if err != nil {
		logging.Error(err)
	}
	tree := menu.NewTree(th.Geometry.Metrics(), menu.CellMeasurer{}, sink)
	if cfg.Workspaces > 0 {
		tree.Workspaces = cfg.Workspaces
	}
	if err := tree.Init(Sources(cfg)); err != nil {
		logging.Error(fmt.Errorf("load menu: %w", err))
	}
	return tree, th
}

// Dump writes the menu opened by cfg and everything reachable from it.
func Dump(cfg Config, w io.Writer) error {
	tree, _ := BuildTree(cfg, diag.LogSink{})
	return tree.Dump(w, cfg.OpenMenu)
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	if cfg.Dump {
		return Dump(cfg, os.Stdout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	met := metrics.New()
	sink := met.Sink(diag.LogSink{})
	tree, th := BuildTree(cfg, sink)
	met.SetMenus(tree.Len())

	if cfg.MetricsListen != "" {
		go func() {
			if err := met.Serve(ctx, cfg.MetricsListen); err != nil {
				logging.Error(fmt.Errorf("metrics: %w", err))
			}
		}()
	}

	src := Sources(cfg)
	var watcher *backend.Watcher
	if cfg.Watch {
		w, err := backend.NewWatcher(watchPaths(src), watchInterval)
		if err != nil {
			logging.Error(fmt.Errorf("watch menu files: %w", err))
		} else {
			watcher = w
			defer watcher.Stop()
		}
	}

	loop := pipemenu.NewLoop()
	engine := &layout.Engine{Tree: tree, Diag: sink}
	pipes := &pipemenu.Controller{
		Tree:     tree,
		Reactor:  loop,
		Spawner:  pipemenu.ExecSpawner{},
		Diag:     sink,
		Observer: met,
	}
	model := ui.NewModel(ui.Options{
		Tree:     tree,
		Layout:   engine,
		Pipes:    pipes,
		Loop:     loop,
		Bus:      command.New(command.ShellStarter{}),
		Watcher:  watcher,
		Sources:  src,
		Metrics:  met,
		Styles:   th.Styles(),
		Diag:     sink,
		OpenMenu: cfg.OpenMenu,
		X:        cfg.X,
		Y:        cfg.Y,
		Width:    cfg.Width,
		Height:   cfg.Height,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
