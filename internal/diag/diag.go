// Package diag is the one-way channel for structural anomalies found while
// building, laying out or extending the menu tree. Nothing reported here is
// fatal; callers keep going with a smaller menu.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/wmmenu/internal/logging"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindConfigSource    Kind = "config-source"
	KindParse           Kind = "parse"
	KindDuplicateID     Kind = "duplicate-id"
	KindUnresolvedMenu  Kind = "unresolved-menu"
	KindPipeLink        Kind = "pipe-link"
	KindItemContext     Kind = "item-context"
	KindInvalidAction   Kind = "invalid-action"
	KindLayout          Kind = "layout"
	KindMalformedOutput Kind = "malformed-output"
	KindOversizedOutput Kind = "oversized-output"
	KindTimeout         Kind = "timeout"
	KindProcessError    Kind = "process-error"
	KindStaleParent     Kind = "stale-parent"
)

// Diagnostic is a single reported anomaly.
type Diagnostic struct {
	Kind    Kind
	Message string
	Fields  map[string]interface{}
}

func (d Diagnostic) String() string {
	if len(d.Fields) == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, d.Fields[k]))
	}
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, strings.Join(parts, " "))
}

// Sink receives diagnostics.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// LogSink writes diagnostics to the shared log and mirrors them as trace events.
type LogSink struct{}

func (LogSink) Report(d Diagnostic) {
	logging.Error(fmt.Errorf("%s", d.String()))
	payload := map[string]interface{}{"kind": string(d.Kind), "message": d.Message}
	for k, v := range d.Fields {
		payload[k] = v
	}
	logging.Trace("diag."+string(d.Kind), payload)
}

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Report is a convenience that tolerates a nil sink.
func Report(s Sink, kind Kind, msg string, fields map[string]interface{}) {
	if s == nil {
		return
	}
	s.Report(Diagnostic{Kind: kind, Message: msg, Fields: fields})
}

// Recorder keeps every diagnostic it receives. It is safe for concurrent use
// so tests can hand it to code driven from helper goroutines.
type Recorder struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	r.items = append(r.items, d)
	r.mu.Unlock()
}

// All returns a copy of the recorded diagnostics.
func (r *Recorder) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many diagnostics of the given kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
