package observe

import (
	"sync"
	"sync/atomic"

	"github.com/kbukum/retrykit/logger"
)

// Dispatcher fans events out to registered observers in registration order.
// A panicking observer is logged and skipped; it can never mask the retry
// outcome. Dispatch can be disabled globally without unregistering anyone.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	disabled  atomic.Bool
	log       *logger.Logger
}

// NewDispatcher creates a dispatcher over the given observers.
func NewDispatcher(observers ...Observer) *Dispatcher {
	d := &Dispatcher{log: logger.Get("observe")}
	for _, o := range observers {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
	return d
}

// Add registers another observer. Registration should happen before the
// dispatcher is used concurrently.
func (d *Dispatcher) Add(o Observer) {
	if o == nil {
		return
	}
	d.mu.Lock()
	d.observers = append(d.observers, o)
	d.mu.Unlock()
}

// SetEnabled toggles dispatch globally.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.disabled.Store(!enabled)
}

// Retrying delivers a RetryingEvent.
func (d *Dispatcher) Retrying(e RetryingEvent) {
	d.each(func(o Observer) { o.OnRetrying(e) })
}

// Succeeded delivers a SucceededEvent.
func (d *Dispatcher) Succeeded(e SucceededEvent) {
	d.each(func(o Observer) { o.OnSucceeded(e) })
}

// Failed delivers a FailedEvent.
func (d *Dispatcher) Failed(e FailedEvent) {
	d.each(func(o Observer) { o.OnFailed(e) })
}

func (d *Dispatcher) each(deliver func(Observer)) {
	if d.disabled.Load() {
		return
	}
	d.mu.RLock()
	observers := d.observers
	d.mu.RUnlock()

	for _, o := range observers {
		d.deliverSafely(o, deliver)
	}
}

func (d *Dispatcher) deliverSafely(o Observer, deliver func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("observer panicked", logger.Fields("panic", r))
		}
	}()
	deliver(o)
}
