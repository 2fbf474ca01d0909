package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/kbukum/retrykit/observe"
)

func successFixture(value any) *Result {
	return &Result{
		value:       value,
		attempts:    1,
		operationID: "op-1",
		metadata:    map[string]any{"k": "v"},
	}
}

func failureFixture(err error) *Result {
	return &Result{
		err:      err,
		attempts: 3,
		history: []observe.Attempt{
			{Attempt: 0, Err: errors.New("first"), Message: "first", Retryable: true},
			{Attempt: 1, Err: errors.New("second"), Message: "second", Retryable: true},
		},
	}
}

func TestResult_ThenTransformsValue(t *testing.T) {
	res := successFixture(2).Then(func(v any) (any, error) {
		return v.(int) * 10, nil
	})

	v, err := res.Value()
	if err != nil || v != 20 {
		t.Errorf("expected 20, got %v / %v", v, err)
	}
}

func TestResult_ThenErrorConvertsToFailure(t *testing.T) {
	boom := errors.New("boom")
	res := successFixture("x").Then(func(v any) (any, error) {
		return nil, boom
	})

	if !res.Failed() || !errors.Is(res.Err(), boom) {
		t.Errorf("expected failure with boom, got %v", res.Err())
	}
}

func TestResult_ThenSkippedOnFailure(t *testing.T) {
	terminal := errors.New("terminal")
	called := false
	res := failureFixture(terminal).Then(func(v any) (any, error) {
		called = true
		return "never", nil
	})

	if called {
		t.Error("expected Then to be skipped on a failed result")
	}
	if !errors.Is(res.Err(), terminal) {
		t.Errorf("expected terminal error preserved, got %v", res.Err())
	}
}

func TestResult_CatchRecovers(t *testing.T) {
	res := failureFixture(errors.New("terminal")).Catch(func(err error) (any, error) {
		return "fallback", nil
	})

	if !res.Succeeded() {
		t.Fatalf("expected recovery, got %v", res.Err())
	}
	v, _ := res.Value()
	if v != "fallback" {
		t.Errorf("expected fallback, got %v", v)
	}
}

func TestResult_CatchSkippedOnSuccess(t *testing.T) {
	called := false
	res := successFixture("ok").Catch(func(err error) (any, error) {
		called = true
		return nil, nil
	})

	if called {
		t.Error("expected Catch to be skipped on success")
	}
	if !res.Succeeded() {
		t.Error("expected success preserved")
	}
}

func TestResult_FinallyErrorOverridesSuccess(t *testing.T) {
	cleanup := errors.New("cleanup failed")
	res := successFixture("ok").Finally(func() error {
		return cleanup
	})

	if !res.Failed() || !errors.Is(res.Err(), cleanup) {
		t.Errorf("expected cleanup error to win, got %v", res.Err())
	}
}

func TestResult_FinallyRunsOnFailure(t *testing.T) {
	terminal := errors.New("terminal")
	ran := false
	res := failureFixture(terminal).Finally(func() error {
		ran = true
		return nil
	})

	if !ran {
		t.Error("expected Finally to run on failure")
	}
	if !errors.Is(res.Err(), terminal) {
		t.Errorf("expected terminal error preserved, got %v", res.Err())
	}
}

func TestResult_ChainIsImmutable(t *testing.T) {
	orig := successFixture(1)
	orig.Then(func(v any) (any, error) { return 2, nil })

	v, _ := orig.Value()
	if v != 1 {
		t.Errorf("expected original untouched, got %v", v)
	}
}

func TestResult_FirstErr(t *testing.T) {
	res := failureFixture(errors.New("terminal"))
	if res.FirstErr() == nil || res.FirstErr().Error() != "first" {
		t.Errorf("expected first recorded error, got %v", res.FirstErr())
	}

	empty := &Result{err: errors.New("only")}
	if empty.FirstErr().Error() != "only" {
		t.Errorf("expected terminal fallback, got %v", empty.FirstErr())
	}
}

func TestResult_HistoryIsCopied(t *testing.T) {
	res := failureFixture(errors.New("terminal"))
	h := res.History()
	h[0].Message = "mutated"

	if res.History()[0].Message != "first" {
		t.Error("expected History to return a defensive copy")
	}
}

func TestContext_FinalizeMetrics(t *testing.T) {
	start := time.Unix(0, 0)
	c := newContext(3, start)

	c.recordFailure(0, errors.New("a"), true, 10*time.Millisecond, 20*time.Millisecond, start.Add(time.Second))
	c.recordFailure(1, errors.New("b"), true, 30*time.Millisecond, 40*time.Millisecond, start.Add(2*time.Second))
	c.recordSuccess(60 * time.Millisecond)
	c.finalize(start.Add(3 * time.Second))

	m := c.Metrics
	if m.TotalDuration != 3*time.Second {
		t.Errorf("total duration: got %v", m.TotalDuration)
	}
	if m.TotalDelay != 40*time.Millisecond {
		t.Errorf("total delay: got %v", m.TotalDelay)
	}
	if m.MinAttemptDuration != 20*time.Millisecond || m.MaxAttemptDuration != 60*time.Millisecond {
		t.Errorf("min/max: got %v / %v", m.MinAttemptDuration, m.MaxAttemptDuration)
	}
	if m.AvgAttemptDuration != 40*time.Millisecond {
		t.Errorf("avg: got %v", m.AvgAttemptDuration)
	}
}
