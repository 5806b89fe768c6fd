// Package clients is the instrumented HTTP client used to reach the remote
// quote server. Callers above the acl package never see these errors.
package clients

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCircuitOpen matches every *OpenError.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// OpenError is returned while the breaker rejects calls.
type OpenError struct {
	// RetryAfter is how long until the breaker lets a probe through.
	RetryAfter time.Duration
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrCircuitOpen, e.RetryAfter.Round(time.Millisecond))
}

// Is reports whether target is ErrCircuitOpen.
func (e *OpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}
