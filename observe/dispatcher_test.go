package observe

import (
	"errors"
	"testing"
	"time"
)

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) OnRetrying(e RetryingEvent) {
	r.events = append(r.events, "retrying")
}
func (r *recordingObserver) OnSucceeded(e SucceededEvent) {
	r.events = append(r.events, "succeeded")
}
func (r *recordingObserver) OnFailed(e FailedEvent) {
	r.events = append(r.events, "failed")
}

type panickyObserver struct{}

func (panickyObserver) OnRetrying(RetryingEvent)   { panic("retrying boom") }
func (panickyObserver) OnSucceeded(SucceededEvent) { panic("succeeded boom") }
func (panickyObserver) OnFailed(FailedEvent)       { panic("failed boom") }

func TestDispatcher_Order(t *testing.T) {
	rec := &recordingObserver{}
	d := NewDispatcher(rec)

	d.Retrying(RetryingEvent{Attempt: 1})
	d.Retrying(RetryingEvent{Attempt: 2})
	d.Succeeded(SucceededEvent{Attempt: 2})

	want := []string{"retrying", "retrying", "succeeded"}
	if len(rec.events) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], rec.events[i])
		}
	}
}

func TestDispatcher_PanicIsolation(t *testing.T) {
	rec := &recordingObserver{}
	d := NewDispatcher(panickyObserver{}, rec)

	d.Retrying(RetryingEvent{Attempt: 1})
	d.Failed(FailedEvent{Err: errors.New("boom")})

	want := []string{"retrying", "failed"}
	if len(rec.events) != len(want) {
		t.Fatalf("expected later observer to still receive events, got %v", rec.events)
	}
}

func TestDispatcher_Disable(t *testing.T) {
	rec := &recordingObserver{}
	d := NewDispatcher(rec)

	d.SetEnabled(false)
	d.Retrying(RetryingEvent{Attempt: 1})
	d.Succeeded(SucceededEvent{})
	if len(rec.events) != 0 {
		t.Errorf("expected no events while disabled, got %v", rec.events)
	}

	d.SetEnabled(true)
	d.Succeeded(SucceededEvent{TotalTime: time.Second})
	if len(rec.events) != 1 {
		t.Errorf("expected dispatch after re-enable, got %v", rec.events)
	}
}

func TestDispatcher_NilObserversIgnored(t *testing.T) {
	d := NewDispatcher(nil, &recordingObserver{})
	d.Add(nil)
	// Must not panic.
	d.Failed(FailedEvent{})
}
