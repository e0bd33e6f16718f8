package dispatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffNext_GrowsUntilCapped(t *testing.T) {
	t.Parallel()

	var backoff exponentialBackoff

	expected := []time.Duration{backoffInitialInterval}

	for {
		last := expected[len(expected)-1]

		next := min(time.Duration(float64(last)*backoffMultiplier), backoffMaxInterval)

		expected = append(expected, next)

		if next == backoffMaxInterval {
			break
		}
	}

	for i, want := range expected {
		got := backoff.next()

		assert.Equal(t, want, got, "mismatch at step %d", i)
	}

	assert.Equal(t, backoffMaxInterval, backoff.next())
}

func TestBackoffReset_StartsOver(t *testing.T) {
	t.Parallel()

	var backoff exponentialBackoff

	backoff.next()
	backoff.next()

	backoff.reset()

	assert.Equal(t, backoffInitialInterval, backoff.next())
}
