// Package pipemenu runs the command behind a pipe menu item, collects its
// output under size and time bounds and hands a well-formed result to a
// Splicer that grafts it into the menu tree.
package pipemenu

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

const (
	// MaxBufferSize caps accepted command output.
	MaxBufferSize = 1 << 20
	// Timeout is how long a command may run before it is terminated.
	Timeout = 4000 * time.Millisecond

	chunkSize = 8192
)

var (
	ErrBusy      = errors.New("another pipe menu is pending")
	ErrOverflow  = fmt.Errorf("output exceeds %d bytes", MaxBufferSize)
	ErrMalformed = errors.New("expect xml data to start with '<'")
	ErrTimeout   = errors.New("timeout reached")
)

// State is a step of a pipe menu request.
type State int

const (
	StateIdle State = iota
	StateSpawned
	StateStreaming
	StateComplete
	StateOverflow
	StateProcessError
	StateTimeout
	StateMalformedOutput
	StateClosed
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateSpawned:         "spawned",
	StateStreaming:       "streaming",
	StateComplete:        "complete",
	StateOverflow:        "overflow",
	StateProcessError:    "process-error",
	StateTimeout:         "timeout",
	StateMalformedOutput: "malformed-output",
	StateClosed:          "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether s ends a request.
func (s State) Terminal() bool {
	return s >= StateComplete
}

// Accumulator collects command output up to a byte limit.
type Accumulator struct {
	limit int
	buf   []byte
}

// NewAccumulator returns an accumulator bounded by limit bytes; a
// non-positive limit means MaxBufferSize.
func NewAccumulator(limit int) *Accumulator {
	if limit <= 0 {
		limit = MaxBufferSize
	}
	return &Accumulator{limit: limit}
}

// Append adds a chunk. Nothing is added when the chunk would take the total
// past the limit.
func (a *Accumulator) Append(chunk []byte) error {
	if len(a.buf)+len(chunk) > a.limit {
		return fmt.Errorf("%d+%d bytes: %w", len(a.buf), len(chunk), ErrOverflow)
	}
	a.buf = append(a.buf, chunk...)
	return nil
}

// Finish checks that the collected output looks like markup.
func (a *Accumulator) Finish() error {
	trimmed := bytes.TrimLeft(a.buf, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return ErrMalformed
	}
	return nil
}

func (a *Accumulator) Bytes() []byte { return a.buf }

func (a *Accumulator) Len() int { return len(a.buf) }

// Reset drops the collected output.
func (a *Accumulator) Reset() { a.buf = nil }
