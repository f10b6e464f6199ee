// Package command turns the actions of an activated menu item into Bubble
// Tea commands.
package command

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/wmmenu/internal/action"
	"github.com/atomicstack/wmmenu/internal/logging/events"
)

// Starter launches a command without waiting for it.
type Starter interface {
	Start(command string) error
}

// ShellStarter runs commands through a shell and reaps them in the
// background.
type ShellStarter struct {
	Shell string
}

func (s ShellStarter) Start(command string) error {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", command, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Request is one action queued by an activation.
type Request struct {
	Action      *action.Action
	TriggeredBy interface{}
}

// Result is the combined outcome of the requests drained together.
type Result struct {
	Info     []string
	Err      error
	Quit     bool
	Reload   bool
	ShowMenu string
}

// Bus queues actions handed over by the navigator until the UI drains them.
type Bus struct {
	starter Starter
	pending []Request
}

// New initialises a command bus instance.
func New(starter Starter) *Bus {
	if starter == nil {
		starter = ShellStarter{}
	}
	return &Bus{starter: starter}
}

// Run queues actions. It never executes anything itself so the navigator
// can finish closing the menu first.
func (b *Bus) Run(actions []*action.Action, triggeredBy interface{}) {
	for _, a := range actions {
		events.Action.Queue(a.Name, a.Args.Map())
		b.pending = append(b.pending, Request{Action: a, TriggeredBy: triggeredBy})
	}
}

// Pending returns the number of queued requests.
func (b *Bus) Pending() int { return len(b.pending) }

// Drain wraps every queued request into one command whose message is a
// Result. It returns nil when nothing is queued.
func (b *Bus) Drain() tea.Cmd {
	if len(b.pending) == 0 {
		return nil
	}
	reqs := b.pending
	b.pending = nil
	return func() tea.Msg {
		var res Result
		var errs []error
		for _, req := range reqs {
			if err := b.execute(req, &res); err != nil {
				events.Action.Error(err)
				errs = append(errs, err)
			}
		}
		res.Err = errors.Join(errs...)
		if res.Err == nil && len(res.Info) > 0 {
			events.Action.Success(strings.Join(res.Info, "; "))
		}
		return res
	}
}

func (b *Bus) execute(req Request, res *Result) error {
	a := req.Action
	switch a.Name {
	case "Execute":
		cmd, _ := a.Args.Get("command")
		if err := b.starter.Start(cmd); err != nil {
			return err
		}
		res.Info = append(res.Info, "started "+cmd)
	case "Exit":
		res.Quit = true
	case "Reconfigure":
		res.Reload = true
	case "ShowMenu":
		id, _ := a.Args.Get("menu")
		res.ShowMenu = id
	default:
		events.Action.Skip(a.Name)
		res.Info = append(res.Info, a.Name+": no window to act on")
	}
	return nil
}
