package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/wmmenu/internal/backend"
	"github.com/atomicstack/wmmenu/internal/logging"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/pipemenu"
)

// waitForReactor hands the next pipe menu callback to Update so the menu
// tree is only touched from the Bubble Tea goroutine.
func waitForReactor(loop *pipemenu.Loop) tea.Cmd {
	return func() tea.Msg {
		return reactorMsg{fn: <-loop.Events()}
	}
}

type reactorMsg struct {
	fn func()
}

func (m *Model) handleReactorMsg(msg tea.Msg) tea.Cmd {
	evt, ok := msg.(reactorMsg)
	if !ok {
		return nil
	}
	if evt.fn != nil {
		evt.fn()
	}
	if m.loop == nil {
		return nil
	}
	m.loop.RunPending()
	return waitForReactor(m.loop)
}

func waitForWatcherEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return watcherDoneMsg{}
		}
		return watcherEventMsg{event: evt}
	}
}

type watcherEventMsg struct {
	event backend.Event
}

type watcherDoneMsg struct{}

func (m *Model) handleWatcherEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(watcherEventMsg)
	if !ok {
		return nil
	}
	m.applyWatcherEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForWatcherEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleWatcherDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

func (m *Model) applyWatcherEvent(evt backend.Event) {
	if evt.Kind == backend.KindError {
		logging.Error(evt.Err)
		if evt.Err != nil {
			m.watcherErr = evt.Err.Error()
		}
		return
	}
	m.watcherErr = ""
	events.App.Reload(evt.Path)
	m.reload(true)
	m.infoMsg = "reloaded " + evt.Path
}
