package pipemenu

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLoopDeliversChunksThenEOF(t *testing.T) {
	loop := NewLoop()
	var got []string
	var end error
	loop.WatchReadable(strings.NewReader("hello"), func(chunk []byte, err error) {
		if len(chunk) > 0 {
			got = append(got, string(chunk))
		}
		if err != nil {
			end = err
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for end == nil {
		if err := loop.Next(ctx); err != nil {
			t.Fatalf("loop stalled: %v", err)
		}
	}
	if strings.Join(got, "") != "hello" || !errors.Is(end, io.EOF) {
		t.Fatalf("unexpected delivery %v / %v", got, end)
	}
}

func TestLoopTimerAndRemove(t *testing.T) {
	loop := NewLoop()
	fired := 0
	loop.AddTimer(10*time.Millisecond, func() { fired++ })
	removed := loop.AddTimer(10*time.Millisecond, func() { fired += 100 })
	removed.Remove()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := loop.Next(ctx); err != nil {
		t.Fatalf("timer never fired: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	loop.RunPending()
	if fired != 1 {
		t.Fatalf("expected only the live timer to fire, got %d", fired)
	}
}

func TestLoopSkipsCallbacksRemovedWhileQueued(t *testing.T) {
	loop := NewLoop()
	calls := 0
	src := loop.WatchReadable(strings.NewReader("data"), func([]byte, error) { calls++ })
	deadline := time.Now().Add(2 * time.Second)
	for len(loop.queue) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	src.Remove()
	loop.RunPending()
	if calls != 0 {
		t.Fatalf("expected no callback after Remove, got %d", calls)
	}
}
