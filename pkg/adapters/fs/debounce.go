package fs

import (
	"sync"
	"time"

	"github.com/aretw0/scribe/pkg/core"
)

// debouncer coalesces bursts of filesystem events per record. The first
// event for a record arms a timer; events arriving before it fires are
// merged into the pending one.
type debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	stopped bool
	pending map[string]core.Event
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{
		wait:    wait,
		pending: make(map[string]core.Event),
		timers:  make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	key := e.ID
	if _, armed := d.timers[key]; armed {
		d.pending[key] = merge(d.pending[key], e)
		return
	}

	d.pending[key] = e
	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.wait, func() {
		defer d.wg.Done()
		d.mu.Lock()
		ev := d.pending[key]
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()
		fn(ev)
	})
}

// merge keeps a CREATE followed by writes a CREATE; otherwise the latest
// event wins.
func merge(prev, next core.Event) core.Event {
	if prev.Type == core.EventCreate && next.Type == core.EventModify {
		prev.Timestamp = next.Timestamp
		return prev
	}
	return next
}

// stopAndWait drops pending events and waits up to timeout for callbacks
// already running.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
			delete(d.timers, key)
			delete(d.pending, key)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
