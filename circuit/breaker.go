package circuit

import (
	"sync"
	"time"

	"github.com/kbukum/retrykit/logger"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows calls to pass through.
	StateClosed State = iota
	// StateOpen refuses all calls.
	StateOpen
	// StateHalfOpen allows a limited number of probe calls to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// FailurePolicy decides what happens when the shared Store cannot be
// read or written.
type FailurePolicy int

const (
	// FailOpen permits the call when shared state is unreachable.
	FailOpen FailurePolicy = iota
	// FailClosed blocks the call when shared state is unreachable.
	FailClosed
)

// Config configures a Breaker.
type Config struct {
	// Key identifies this logical breaker for sharing and logging.
	Key string
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold int
	// ResetTimeout is how long the breaker stays open before admitting a probe.
	ResetTimeout time.Duration
	// HalfOpenMaxProbes is the number of calls allowed while half-open.
	HalfOpenMaxProbes int
	// FailurePolicy applies when the Store errors.
	FailurePolicy FailurePolicy
	// Store optionally mirrors state into shared storage.
	Store Store
	// OnStateChange is called after each transition.
	OnStateChange func(key string, from, to State)
}

// DefaultConfig returns sensible defaults for a keyed breaker.
func DefaultConfig(key string) Config {
	return Config{
		Key:               key,
		FailureThreshold:  5,
		ResetTimeout:      30 * time.Second,
		HalfOpenMaxProbes: 1,
	}
}

// Breaker is a consecutive-failure circuit breaker. All state transitions are
// serialized by an internal mutex, so concurrent callers sharing one breaker
// can never issue two half-open probes at once.
type Breaker struct {
	cfg Config
	log *logger.Logger

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probesSent  int

	nowFn func() time.Time
}

// NewBreaker creates a breaker, seeding state from the shared Store when one
// is configured and has a snapshot for the key.
func NewBreaker(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxProbes <= 0 {
		cfg.HalfOpenMaxProbes = 1
	}

	b := &Breaker{
		cfg:   cfg,
		log:   logger.Get("circuit").WithFields(map[string]interface{}{logger.FieldBreaker: cfg.Key}),
		state: StateClosed,
		nowFn: time.Now,
	}

	if cfg.Store != nil {
		if snap, ok, err := cfg.Store.Load(cfg.Key); err != nil {
			b.log.Warn("breaker store load failed", logger.Fields(logger.FieldError, err.Error()))
		} else if ok {
			b.state = snap.State
			b.failures = snap.FailureCount
			b.lastFailure = snap.LastFailure
		}
	}

	return b
}

// Allow reports whether a call may proceed. While open it refuses until the
// reset timeout elapses, then transitions to half-open and admits exactly
// HalfOpenMaxProbes probes. Store failures resolve per the FailurePolicy.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.Store != nil {
		if snap, ok, err := b.cfg.Store.Load(b.cfg.Key); err != nil {
			b.log.Warn("breaker store load failed", logger.Fields(logger.FieldError, err.Error()))
			return b.cfg.FailurePolicy == FailOpen
		} else if ok && snap.State == StateOpen && b.state == StateClosed {
			// Another holder tripped the shared breaker.
			b.state = StateOpen
			b.failures = snap.FailureCount
			b.lastFailure = snap.LastFailure
		}
	}

	switch b.refreshLocked() {
	case StateOpen:
		return false
	case StateHalfOpen:
		if b.probesSent >= b.cfg.HalfOpenMaxProbes {
			return false
		}
		b.probesSent++
		return true
	default:
		return true
	}
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.refreshLocked() {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.transitionLocked(StateClosed)
	}
	b.persistLocked()
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = b.nowFn()

	switch b.refreshLocked() {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		b.transitionLocked(StateOpen)
	}
	b.persistLocked()
}

// State returns the current state, applying the open→half-open timeout.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshLocked()
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Reset forces the breaker back to closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitionLocked(StateClosed)
	b.persistLocked()
}

// SetClock overrides the breaker clock, primarily for tests.
func (b *Breaker) SetClock(f func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nowFn = f
}

// refreshLocked applies the open→half-open timeout transition.
func (b *Breaker) refreshLocked() State {
	if b.state == StateOpen && b.nowFn().Sub(b.lastFailure) >= b.cfg.ResetTimeout {
		b.transitionLocked(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transitionLocked(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to

	switch to {
	case StateClosed:
		b.failures = 0
		b.probesSent = 0
	case StateHalfOpen:
		b.probesSent = 0
	case StateOpen:
		b.probesSent = 0
		b.lastFailure = b.nowFn()
	}

	b.log.Info("breaker state change", logger.Fields(
		"from", from.String(),
		logger.FieldBreakerState, to.String(),
	))
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Key, from, to)
	}
}

func (b *Breaker) persistLocked() {
	if b.cfg.Store == nil {
		return
	}
	snap := Snapshot{State: b.state, FailureCount: b.failures, LastFailure: b.lastFailure}
	if err := b.cfg.Store.Save(b.cfg.Key, snap); err != nil {
		b.log.Warn("breaker store save failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
