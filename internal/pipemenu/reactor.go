package pipemenu

import (
	"context"
	"io"
	"sync"
	"time"
)

// Source is a registered readiness watch or timer.
type Source interface {
	Remove()
}

// Reactor runs callbacks on a single goroutine. WatchReadable calls fn with
// each chunk read from r and finally with a nil chunk and the terminating
// error (io.EOF at end of stream). No callback runs after Remove.
type Reactor interface {
	WatchReadable(r io.Reader, fn func(chunk []byte, err error)) Source
	AddTimer(d time.Duration, fn func()) Source
}

// Loop is a Reactor whose callbacks are drained by its owner. Helper
// goroutines only read and post closures; they never touch the menu tree.
type Loop struct {
	queue chan func()
}

func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 16)}
}

// Events exposes posted callbacks for owners that drain the loop from their
// own event loop.
func (l *Loop) Events() <-chan func() {
	return l.queue
}

// Next blocks until a callback is posted, runs it and returns.
func (l *Loop) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case fn := <-l.queue:
		fn()
		return nil
	}
}

// RunPending runs every callback that is already queued.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run drains the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Next(ctx); err != nil {
			return err
		}
	}
}

type loopSource struct {
	once  sync.Once
	done  chan struct{}
	timer *time.Timer
}

func (s *loopSource) Remove() {
	s.once.Do(func() {
		close(s.done)
		if s.timer != nil {
			s.timer.Stop()
		}
	})
}

func (s *loopSource) removed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// post queues fn unless src is removed first. The closure re-checks removal
// because the owner may remove src while fn sits in the queue.
func (l *Loop) post(src *loopSource, fn func()) bool {
	wrapped := func() {
		if src.removed() {
			return
		}
		fn()
	}
	select {
	case l.queue <- wrapped:
		return true
	case <-src.done:
		return false
	}
}

func (l *Loop) WatchReadable(r io.Reader, fn func([]byte, error)) Source {
	src := &loopSource{done: make(chan struct{})}
	go func() {
		buf := make([]byte, chunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				if !l.post(src, func() { fn(chunk, nil) }) {
					return
				}
			}
			if err != nil {
				l.post(src, func() { fn(nil, err) })
				return
			}
		}
	}()
	return src
}

func (l *Loop) AddTimer(d time.Duration, fn func()) Source {
	src := &loopSource{done: make(chan struct{})}
	src.timer = time.AfterFunc(d, func() {
		l.post(src, fn)
	})
	return src
}
