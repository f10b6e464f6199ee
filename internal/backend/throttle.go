package backend

import (
	"context"
	"time"
)

// reloadGate keeps successive reloads at least interval apart, so the burst
// of writes an editor makes when saving becomes a single rebuild.
type reloadGate struct {
	interval time.Duration
	next     time.Time
}

func newReloadGate(interval time.Duration) *reloadGate {
	if interval < 0 {
		interval = 0
	}
	return &reloadGate{interval: interval}
}

// wait blocks until the next reload may run. It reports false when ctx
// ends first.
func (g *reloadGate) wait(ctx context.Context) bool {
	if g == nil || g.interval == 0 {
		return ctx.Err() == nil
	}
	if d := time.Until(g.next); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	g.next = time.Now().Add(g.interval)
	return true
}
