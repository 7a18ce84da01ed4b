// Package dispatch realizes the external timer primitive in-process: a
// handle-keyed table of pending time.Timers that invokes the wake delivery
// callback when a registration fires.
package dispatch

import (
	"sync"
	"time"

	"wakeup/internal/models"
)

// Dispatcher schedules trigger payloads for delivery at absolute instants.
// ScheduleAt over an existing handle replaces it; Cancel of an unknown
// handle is a no-op. Both are safe to call redundantly, which edit flows do.
type Dispatcher struct {
	mu     sync.Mutex
	timers map[int]*time.Timer
	fire   func(models.TriggerPayload)
}

// New creates a dispatcher delivering fired payloads to the given callback.
// The callback runs on a timer goroutine; the receiver must serialize.
func New(fire func(models.TriggerPayload)) *Dispatcher {
	return &Dispatcher{
		timers: make(map[int]*time.Timer),
		fire:   fire,
	}
}

func (d *Dispatcher) ScheduleAt(handle int, at time.Time, payload models.TriggerPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.timers[handle]; ok {
		old.Stop()
	}
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	d.timers[handle] = time.AfterFunc(delay, func() {
		d.fired(handle, payload)
	})
	return nil
}

func (d *Dispatcher) fired(handle int, payload models.TriggerPayload) {
	d.mu.Lock()
	delete(d.timers, handle)
	d.mu.Unlock()
	d.fire(payload)
}

func (d *Dispatcher) Cancel(handle int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[handle]; ok {
		t.Stop()
		delete(d.timers, handle)
	}
}

// Pending reports how many registrations are waiting to fire.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending registration; used at shutdown.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for handle, t := range d.timers {
		t.Stop()
		delete(d.timers, handle)
	}
}
