package mqttv3

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBackoffPolicy(t *testing.T) {
	policy := DefaultBackoffPolicy()

	assert.Equal(t, 500*time.Millisecond, policy.InitialDelay)
	assert.Equal(t, 5*time.Second, policy.MaxDelay)
	assert.Equal(t, 5, policy.MaxAttempts)
}

func TestBackoffAttemptBudget(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Second,
		MaxAttempts:  3,
	}

	state := policy.start()

	// Two failures still leave one attempt.
	_, err := state.nextDelay()
	require.NoError(t, err)
	_, err = state.nextDelay()
	require.NoError(t, err)

	// The third failure exhausts the budget.
	_, err = state.nextDelay()
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Equal(t, 3, state.attempts)
}

func TestBackoffSingleAttempt(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Second,
		MaxAttempts:  1,
	}

	state := policy.start()

	_, err := state.nextDelay()
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestBackoffZeroAttemptsTreatedAsOne(t *testing.T) {
	policy := BackoffPolicy{InitialDelay: time.Millisecond}

	state := policy.start()

	_, err := state.nextDelay()
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestBackoffDelaysNonDecreasing(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxAttempts:  8,
		Rand:         rand.New(rand.NewPCG(1, 2)),
	}

	state := policy.start()

	var last time.Duration
	for range policy.MaxAttempts - 1 {
		delay, err := state.nextDelay()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, delay, last)
		assert.LessOrEqual(t, delay, policy.MaxDelay)
		last = delay
	}
}

func TestBackoffDelayWithinJitterBounds(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Minute,
		MaxAttempts:  4,
		Rand:         rand.New(rand.NewPCG(3, 4)),
	}

	state := policy.start()

	// First delay: base 100ms plus up to 50ms jitter.
	delay, err := state.nextDelay()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, delay, 100*time.Millisecond)
	assert.LessOrEqual(t, delay, 150*time.Millisecond)

	// Second delay: base 200ms plus up to 100ms jitter.
	delay, err = state.nextDelay()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, delay, 200*time.Millisecond)
	assert.LessOrEqual(t, delay, 300*time.Millisecond)
}

func TestBackoffDelayCapped(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: time.Second,
		MaxDelay:     1500 * time.Millisecond,
		MaxAttempts:  10,
		Rand:         rand.New(rand.NewPCG(5, 6)),
	}

	state := policy.start()

	for range policy.MaxAttempts - 1 {
		delay, err := state.nextDelay()
		require.NoError(t, err)
		assert.LessOrEqual(t, delay, policy.MaxDelay)
	}
}

func TestBackoffFreshStatePerSequence(t *testing.T) {
	policy := BackoffPolicy{
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Second,
		MaxAttempts:  2,
	}

	first := policy.start()
	_, err := first.nextDelay()
	require.NoError(t, err)
	_, err = first.nextDelay()
	require.ErrorIs(t, err, ErrRetryExhausted)

	// A new sequence starts with a full budget.
	second := policy.start()
	_, err = second.nextDelay()
	assert.NoError(t, err)
}
