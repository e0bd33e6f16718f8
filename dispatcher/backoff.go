package dispatcher

import "time"

const (
	backoffInitialInterval = 500 * time.Millisecond
	backoffMultiplier      = 1.5
	backoffMaxInterval     = 30 * time.Second
)

// exponentialBackoff spaces out retries after consecutive failed update
// fetches: each attempt multiplies the delay, capping at the maximum. Not
// safe for concurrent use; the polling loop owns it alone.
type exponentialBackoff struct {
	current time.Duration
}

// next advances the delay and returns the one to sleep for this attempt.
func (b *exponentialBackoff) next() time.Duration {
	if b.current == 0 {
		b.current = backoffInitialInterval

		return b.current
	}

	b.current = min(
		time.Duration(float64(b.current)*backoffMultiplier),
		backoffMaxInterval,
	)

	return b.current
}

// reset puts the delay back to the initial interval after a success.
func (b *exponentialBackoff) reset() {
	b.current = 0
}
