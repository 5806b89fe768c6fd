package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
)

// State is the position of a Breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

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

// Breaker stops calling the remote quote server after repeated failures.
//
//   - closed → open after MaxFailures consecutive failures
//   - open → half-open once Timeout has passed since the last failure
//   - half-open → closed after HalfOpenLimit consecutive successes
//   - half-open → open on any failure
//
// At most HalfOpenLimit probes are in flight while half-open.
type Breaker struct {
	mu       sync.Mutex
	cfg      config.CircuitBreakerConfig
	state    State
	failures int
	passes   int
	probes   int
	failedAt time.Time
	listener func(from, to State)
	now      func() time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg config.CircuitBreakerConfig) *Breaker {
	return &Breaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after each transition. fn runs on the
// goroutine that caused the transition, after the breaker is unlocked.
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listener = fn
}

// Allow admits a call or returns an *OpenError. Every admitted call must be
// finished with Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()

	var from State

	switch b.state {
	case StateClosed:
		b.mu.Unlock()
		return nil

	case StateOpen:
		wait := b.cfg.Timeout - b.now().Sub(b.failedAt)
		if wait > 0 {
			b.mu.Unlock()
			return &OpenError{RetryAfter: wait}
		}

		from = b.moveTo(StateHalfOpen)
		b.probes = 1

	case StateHalfOpen:
		if b.probes >= b.cfg.HalfOpenLimit {
			b.mu.Unlock()
			return &OpenError{}
		}

		b.probes++
		b.mu.Unlock()

		return nil
	}

	b.unlockAndNotify(from)

	return nil
}

// Record finishes a call admitted by Allow. A nil err counts as a success.
func (b *Breaker) Record(err error) {
	b.mu.Lock()

	from := b.state

	if err != nil {
		b.failedAt = b.now()
	}

	switch {
	case b.state == StateClosed && err == nil:
		b.failures = 0

	case b.state == StateClosed:
		b.failures++
		if b.failures >= b.cfg.MaxFailures {
			b.moveTo(StateOpen)
		}

	case b.state == StateHalfOpen && err == nil:
		b.probes--
		b.passes++
		if b.passes >= b.cfg.HalfOpenLimit {
			b.moveTo(StateClosed)
		}

	case b.state == StateHalfOpen:
		b.probes--
		b.moveTo(StateOpen)
	}

	b.unlockAndNotify(from)
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// moveTo switches state and clears the counters. Callers hold mu.
func (b *Breaker) moveTo(to State) State {
	from := b.state
	b.state = to
	b.failures = 0
	b.passes = 0

	if to != StateHalfOpen {
		b.probes = 0
	}

	return from
}

// unlockAndNotify releases mu and tells the listener if the state moved
// away from from.
func (b *Breaker) unlockAndNotify(from State) {
	to, listener := b.state, b.listener
	b.mu.Unlock()

	if listener != nil && from != to {
		listener(from, to)
	}
}
