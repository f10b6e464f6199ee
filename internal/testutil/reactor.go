package testutil

import (
	"io"
	"time"

	"github.com/atomicstack/wmmenu/internal/pipemenu"
)

// ManualSource records whether it was removed.
type ManualSource struct {
	Removed bool
}

func (s *ManualSource) Remove() { s.Removed = true }

// ManualReactor keeps the most recent registrations so tests can fire them
// by hand on the test goroutine.
type ManualReactor struct {
	ReadFn   func([]byte, error)
	TimerFn  func()
	Delay    time.Duration
	Read     *ManualSource
	Timer    *ManualSource
	Watched  io.Reader
	Watches  int
	Timeouts int
}

var _ pipemenu.Reactor = (*ManualReactor)(nil)

func (r *ManualReactor) WatchReadable(rd io.Reader, fn func([]byte, error)) pipemenu.Source {
	r.Watches++
	r.Watched = rd
	r.ReadFn = fn
	r.Read = &ManualSource{}
	return r.Read
}

func (r *ManualReactor) AddTimer(d time.Duration, fn func()) pipemenu.Source {
	r.Timeouts++
	r.Delay = d
	r.TimerFn = fn
	r.Timer = &ManualSource{}
	return r.Timer
}

// Feed delivers a chunk unless the watch was removed.
func (r *ManualReactor) Feed(chunk string) {
	if r.ReadFn == nil || r.Read.Removed {
		return
	}
	r.ReadFn([]byte(chunk), nil)
}

// End delivers end of stream.
func (r *ManualReactor) End() {
	r.Fail(io.EOF)
}

// Fail delivers a read error.
func (r *ManualReactor) Fail(err error) {
	if r.ReadFn == nil || r.Read.Removed {
		return
	}
	r.ReadFn(nil, err)
}

// Fire runs the timer unless it was removed.
func (r *ManualReactor) Fire() {
	if r.TimerFn == nil || r.Timer.Removed {
		return
	}
	r.TimerFn()
}
