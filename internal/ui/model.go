package ui

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/wmmenu/internal/backend"
	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/layout"
	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/menu"
	"github.com/atomicstack/wmmenu/internal/metrics"
	"github.com/atomicstack/wmmenu/internal/navigator"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
	"github.com/atomicstack/wmmenu/internal/theme"
	"github.com/atomicstack/wmmenu/internal/ui/command"
)

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to the menu subsystem.
type Options struct {
	Tree   *menu.Tree
	Layout *layout.Engine
	Pipes  *pipemenu.Controller
	// Loop is drained on the Update goroutine. Nil when Pipes runs on
	// another reactor.
	Loop    *pipemenu.Loop
	Bus     *command.Bus
	Watcher *backend.Watcher
	// Sources feeds Reconfigure.
	Sources menu.Source
	Metrics *metrics.Metrics
	Styles  *theme.Styles
	Diag    diag.Sink

	OpenMenu string
	X, Y     int
	Width    int
	Height   int
}

// Model implements the Bubble Tea model hosting the menu.
type Model struct {
	nav     *navigator.Navigator
	tree    *menu.Tree
	layout  *layout.Engine
	loop    *pipemenu.Loop
	bus     *command.Bus
	watcher *backend.Watcher
	sources menu.Source
	metrics *metrics.Metrics
	styles  *theme.Styles
	keys    keyMap

	openMenu   string
	anchorX    int
	anchorY    int
	width      int
	height     int
	fixedSize  bool
	opened     bool
	hover      *menu.Item
	infoMsg    string
	errMsg     string
	quitting   bool
	watcherErr string

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the navigator around opts and opens the configured menu
// once the screen size is known.
func NewModel(opts Options) *Model {
	m := &Model{
		tree:     opts.Tree,
		layout:   opts.Layout,
		loop:     opts.Loop,
		bus:      opts.Bus,
		watcher:  opts.Watcher,
		sources:  opts.Sources,
		metrics:  opts.Metrics,
		styles:   opts.Styles,
		keys:     defaultKeyMap(),
		openMenu: opts.OpenMenu,
		anchorX:  opts.X,
		anchorY:  opts.Y,
	}
	if m.styles == nil {
		m.styles = theme.Default()
	}
	if m.bus == nil {
		m.bus = command.New(nil)
	}
	if m.openMenu == "" {
		m.openMenu = menu.RootMenuID
	}
	m.nav = navigator.New(navigator.Options{
		Tree:     opts.Tree,
		Layout:   opts.Layout,
		Pipes:    opts.Pipes,
		Executor: m.bus,
		Focus:    m,
		Diag:     opts.Diag,
	})
	if opts.Width > 0 && opts.Height > 0 {
		m.fixedSize = true
		m.resize(opts.Width, opts.Height)
		m.openAt(m.anchorX, m.anchorY)
	}
	m.registerHandlers()
	return m
}

// Navigator exposes the selection state machine.
func (m *Model) Navigator() *navigator.Navigator { return m.nav }

// Quitting reports whether the model asked the program to exit.
func (m *Model) Quitting() bool { return m.quitting }

// UpdateFocus drops the pointer hover once the menu releases input.
func (m *Model) UpdateFocus() {
	m.hover = nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.loop != nil {
		cmds = append(cmds, waitForReactor(m.loop))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForWatcherEvent(m.watcher))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(reactorMsg{}):        m.handleReactorMsg,
		reflect.TypeOf(watcherEventMsg{}):   m.handleWatcherEventMsg,
		reflect.TypeOf(watcherDoneMsg{}):    m.handleWatcherDoneMsg,
		reflect.TypeOf(command.Result{}):    m.handleResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok || m.fixedSize {
		return nil
	}
	m.resize(size.Width, size.Height)
	if !m.opened {
		m.openAt(m.anchorX, m.anchorY)
	}
	return nil
}

// resize maps the terminal to a single output. The last row is kept for
// the status line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	usable := height - 1
	if usable < 1 {
		usable = height
	}
	if m.layout != nil {
		m.layout.Outputs = layout.StaticOutputs{{
			Name:   "terminal",
			Box:    layout.Rect{Width: width, Height: height},
			Usable: layout.Rect{Width: width, Height: usable},
		}}
	}
}

// openAt opens the configured menu with its top-left corner at (x, y).
func (m *Model) openAt(x, y int) {
	m.opened = true
	root, ok := m.tree.Get(m.openMenu)
	if !ok {
		m.errMsg = "unknown menu " + m.openMenu
		return
	}
	if err := m.nav.OpenRoot(root, x, y, "terminal"); err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
		return
	}
	m.anchorX, m.anchorY = x, y
	m.errMsg = ""
}

func (m *Model) handleResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	m.infoMsg = ""
	if len(res.Info) > 0 {
		m.infoMsg = res.Info[len(res.Info)-1]
	}
	m.errMsg = ""
	if res.Err != nil {
		m.errMsg = res.Err.Error()
	}
	if res.Reload {
		m.reload(false)
	}
	if res.ShowMenu != "" {
		m.openMenu = res.ShowMenu
		m.openAt(m.anchorX, m.anchorY)
	}
	if res.Quit {
		return m.quit("exit action")
	}
	return nil
}

// reload rebuilds the tree. An open menu is reopened at the same place
// when reopen is set.
func (m *Model) reload(reopen bool) {
	wasOpen := m.nav.Active() != nil
	if err := m.nav.Reconfigure(m.sources); err != nil {
		logging.Error(err)
	}
	m.hover = nil
	m.metrics.SetMenus(m.tree.Len())
	if reopen && wasOpen {
		m.openAt(m.anchorX, m.anchorY)
	}
}

func (m *Model) quit(reason string) tea.Cmd {
	events.App.Quit(reason)
	m.quitting = true
	if m.watcher != nil {
		m.watcher.Stop()
	}
	return tea.Quit
}
