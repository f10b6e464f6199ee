package pipemenu

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/logging/events"
	"github.com/atomicstack/wmmenu/internal/menu"
)

// Splicer grafts completed output into the menu tree at item.
type Splicer interface {
	Splice(item *menu.Item, doc []byte) error
}

// Observer is told how each request ended.
type Observer interface {
	ObservePipe(outcome string, elapsed time.Duration)
}

// Controller runs at most one pipe menu request at a time. Every method and
// callback runs on the reactor goroutine.
type Controller struct {
	Tree     *menu.Tree
	Reactor  Reactor
	Spawner  Spawner
	Splicer  Splicer
	Diag     diag.Sink
	Observer Observer
	// Timeout and Limit default to Timeout and MaxBufferSize.
	Timeout time.Duration
	Limit   int

	pending *Request
}

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool { return c.pending != nil }

// Current returns the in-flight request or nil.
func (c *Controller) Current() *Request { return c.pending }

// Start spawns the command of a pipe item. It returns ErrBusy while another
// request is pending; the activation is dropped, not queued.
func (c *Controller) Start(item *menu.Item) (*Request, error) {
	if item == nil || !item.IsPipe() {
		return nil, errors.New("start pipe menu: item has no command")
	}
	if c.pending != nil {
		events.Pipe.Busy(item.PipeID)
		return nil, ErrBusy
	}
	if _, exists := c.Tree.Get(item.PipeID); exists {
		diag.Report(c.Diag, diag.KindDuplicateID, fmt.Sprintf("duplicate id '%s'; abort pipemenu", item.PipeID), map[string]interface{}{"id": item.PipeID})
		return nil, fmt.Errorf("start pipe menu %q: %w", item.PipeID, menu.ErrDuplicateID)
	}

	started := time.Now()
	proc, err := c.Spawner.Spawn(item.Execute)
	if err != nil {
		diag.Report(c.Diag, diag.KindProcessError, fmt.Sprintf("failed to spawn pipe menu process %s", item.Execute), map[string]interface{}{"error": err.Error()})
		c.observe(StateProcessError, started)
		return nil, err
	}

	req := &Request{
		ID:      uuid.NewString(),
		Item:    item,
		State:   StateSpawned,
		ctrl:    c,
		proc:    proc,
		acc:     NewAccumulator(c.Limit),
		started: started,
	}
	c.pending = req
	events.Pipe.Spawn(req.ID, item.PipeID, item.Execute, proc.PID())

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}
	req.read = c.Reactor.WatchReadable(proc.Stdout(), req.onReadable)
	req.timer = c.Reactor.AddTimer(timeout, req.onTimeout)
	return req, nil
}

func (c *Controller) observe(state State, started time.Time) {
	if c.Observer != nil {
		c.Observer.ObservePipe(state.String(), time.Since(started))
	}
}

// Request tracks one running command.
type Request struct {
	ID    string
	Item  *menu.Item
	State State
	// Outcome is the terminal state reached before the request closed.
	Outcome State
	Err     error

	ctrl    *Controller
	proc    Process
	acc     *Accumulator
	read    Source
	timer   Source
	started time.Time
}

// PID returns the process id of the command.
func (r *Request) PID() int { return r.proc.PID() }

func (r *Request) closed() bool { return r.State == StateClosed }

func (r *Request) report(kind diag.Kind, msg string) {
	diag.Report(r.ctrl.Diag, kind, fmt.Sprintf("[pipemenu %d] %s", r.PID(), msg), map[string]interface{}{
		"request": r.ID,
		"command": r.Item.Execute,
	})
}

func (r *Request) onReadable(chunk []byte, err error) {
	if r.closed() {
		return
	}
	if len(chunk) > 0 {
		r.State = StateStreaming
		if aerr := r.acc.Append(chunk); aerr != nil {
			r.report(diag.KindOversizedOutput, fmt.Sprintf("too big (> %d bytes); killing %s", r.acc.limit, r.Item.Execute))
			_ = r.proc.Terminate()
			r.finish(StateOverflow, aerr)
			return
		}
		events.Pipe.Read(r.ID, r.PID(), len(chunk), r.acc.Len())
	}
	if err == nil {
		return
	}
	if !errors.Is(err, io.EOF) {
		r.report(diag.KindProcessError, fmt.Sprintf("failed to read data (%s): %v", r.Item.Execute, err))
		r.finish(StateProcessError, err)
		return
	}
	if ferr := r.acc.Finish(); ferr != nil {
		r.report(diag.KindMalformedOutput, ferr.Error()+"; abort pipemenu")
		r.finish(StateMalformedOutput, ferr)
		return
	}
	r.State = StateComplete
	var serr error
	if r.ctrl.Splicer != nil {
		serr = r.ctrl.Splicer.Splice(r.Item, r.acc.Bytes())
		events.Pipe.Splice(r.ID, r.Item.PipeID, r.acc.Len())
	}
	r.finish(StateComplete, serr)
}

func (r *Request) onTimeout() {
	if r.closed() {
		return
	}
	r.report(diag.KindTimeout, fmt.Sprintf("timeout reached, killing %s", r.Item.Execute))
	_ = r.proc.Terminate()
	r.finish(StateTimeout, ErrTimeout)
}

// finish releases everything the request holds. It runs once per request.
func (r *Request) finish(outcome State, err error) {
	r.Outcome = outcome
	r.Err = err
	events.Pipe.State(r.ID, r.PID(), outcome.String())
	if r.read != nil {
		r.read.Remove()
	}
	if r.timer != nil {
		r.timer.Remove()
	}
	_ = r.proc.Close()
	r.acc.Reset()
	r.State = StateClosed
	if r.ctrl.pending == r {
		r.ctrl.pending = nil
	}
	r.ctrl.observe(outcome, r.started)
}
