package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits liveness events while a long sandbox call is in flight.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	parent   uint64
	stopCh   chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// StartHeartbeat starts emitting heartbeats under parent.
// Returns nil when tracing is off or interval <= 0; Stop is nil-safe.
func StartHeartbeat(tracer Tracer, interval time.Duration, parent uint64) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		parent:   parent,
		stopCh:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ticker.C:
			n++
			h.tracer.Emit(&Event{
				Time:     time.Now(),
				Kind:     KindHeartbeat,
				Scope:    ScopeAttempt,
				ParentID: h.parent,
				GID:      getGoroutineID(),
				Name:     "heartbeat",
				Detail:   fmt.Sprintf("#%d", n),
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it to finish.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
