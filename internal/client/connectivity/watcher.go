// Package connectivity tracks backend reachability for the offline-first
// client. A Watcher periodically probes the server and reports the binary
// online/offline state; the offline→online edge fires a callback exactly
// once per transition, which the application wires to the sync replay.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avasilenko/snapdiary/internal/logging"
)

// Pinger is the probe used to decide reachability. The remote API client
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// Watcher polls a Pinger and keeps an atomic online flag. It starts in the
// offline state, so the first successful probe also counts as a transition.
type Watcher struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu       sync.Mutex
	onOnline func(ctx context.Context)
}

// NewWatcher builds a watcher probing pinger every interval.
func NewWatcher(pinger Pinger, interval time.Duration, log logging.Logger) *Watcher {
	return &Watcher{pinger: pinger, interval: interval, log: log}
}

// OnOnline registers the callback fired once per offline→online transition.
// The callback runs on the watcher's goroutine; long work should be handed
// off by the callee.
func (w *Watcher) OnOnline(fn func(ctx context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onOnline = fn
}

// Online reports the last observed state.
func (w *Watcher) Online() bool {
	return w.online.Load()
}

// Check runs a single probe and updates the state, firing the online
// callback when the state flips from offline to online.
func (w *Watcher) Check(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := w.pinger.Ping(pctx)
	cancel()

	was := w.online.Load()
	now := err == nil
	if was == now {
		return
	}
	w.online.Store(now)

	if now {
		w.log.Info(ctx, "connection restored")
		w.mu.Lock()
		fn := w.onOnline
		w.mu.Unlock()
		if fn != nil {
			fn(ctx)
		}
	} else {
		w.log.Warn(ctx, "connection lost, switching to offline mode")
	}
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
