package clients

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
)

var errRemote = errors.New("remote quote server down")

// fakeClock is a settable time source for a Breaker.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestBreaker(maxFailures, halfOpen int) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	b := NewBreaker(config.CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       30 * time.Second,
		HalfOpenLimit: halfOpen,
	})
	b.now = clock.Now

	return b, clock
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(3, 1)

	for range 2 {
		require.NoError(t, b.Allow())
		b.Record(errRemote)
	}

	// A success in between resets the run.
	require.NoError(t, b.Allow())
	b.Record(nil)

	for range 2 {
		require.NoError(t, b.Allow())
		b.Record(errRemote)
	}

	assert.Equal(t, StateClosed, b.State())

	require.NoError(t, b.Allow())
	b.Record(errRemote)
	assert.Equal(t, StateOpen, b.State())

	err := b.Allow()
	require.ErrorIs(t, err, ErrCircuitOpen)

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, 30*time.Second, openErr.RetryAfter)
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	tests := []struct {
		name    string
		results []error
		want    State
	}{
		{name: "probes succeed", results: []error{nil, nil}, want: StateClosed},
		{name: "first probe fails", results: []error{errRemote}, want: StateOpen},
		{name: "second probe fails", results: []error{nil, errRemote}, want: StateOpen},
		{name: "one probe pending", results: []error{nil}, want: StateHalfOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, clock := newTestBreaker(1, 2)

			require.NoError(t, b.Allow())
			b.Record(errRemote)
			require.Equal(t, StateOpen, b.State())

			clock.Advance(10 * time.Second)

			var openErr *OpenError
			require.ErrorAs(t, b.Allow(), &openErr)
			assert.Equal(t, 20*time.Second, openErr.RetryAfter)

			clock.Advance(20 * time.Second)

			for _, result := range tt.results {
				require.NoError(t, b.Allow())
				b.Record(result)
			}

			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b, clock := newTestBreaker(1, 2)

	require.NoError(t, b.Allow())
	b.Record(errRemote)
	clock.Advance(time.Minute)

	require.NoError(t, b.Allow())
	require.NoError(t, b.Allow())
	require.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	b.Record(nil)
	require.NoError(t, b.Allow(), "a finished probe frees a slot")
}

func TestBreaker_OnStateChange(t *testing.T) {
	b, clock := newTestBreaker(1, 1)

	var transitions []string

	b.OnStateChange(func(from, to State) {
		// The listener may read the breaker without deadlocking.
		assert.Equal(t, to, b.State())
		transitions = append(transitions, from.String()+"→"+to.String())
	})

	require.NoError(t, b.Allow())
	b.Record(errRemote)
	clock.Advance(time.Minute)
	require.NoError(t, b.Allow())
	b.Record(nil)

	assert.Equal(t, []string{"closed→open", "open→half-open", "half-open→closed"}, transitions)
}

func TestBreaker_Concurrent(t *testing.T) {
	b, _ := newTestBreaker(1000, 1)

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if b.Allow() != nil {
				return
			}

			if i%2 == 0 {
				b.Record(nil)
			} else {
				b.Record(errRemote)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_NeverAdmitsWhileOpen(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b, clock := newTestBreaker(rapid.IntRange(1, 4).Draw(t, "maxFailures"), rapid.IntRange(1, 3).Draw(t, "halfOpen"))
		inFlight := 0

		steps := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 60).Draw(t, "steps")
		for _, step := range steps {
			switch step {
			case 0:
				before := b.State()
				err := b.Allow()

				if before == StateOpen && err == nil && b.State() != StateHalfOpen {
					t.Fatalf("open breaker admitted a call without going half-open")
				}

				if err == nil {
					inFlight++
				}
			case 1:
				if inFlight > 0 {
					inFlight--
					b.Record(errRemote)
				}
			case 2:
				if inFlight > 0 {
					inFlight--
					b.Record(nil)
				}

				clock.Advance(15 * time.Second)
			}

			if b.State() == StateHalfOpen && b.probes > b.cfg.HalfOpenLimit {
				t.Fatalf("%d probes in flight, limit %d", b.probes, b.cfg.HalfOpenLimit)
			}
		}
	})
}
