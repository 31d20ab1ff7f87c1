package mqttv3

import (
	"math/rand/v2"
	"time"
)

// BackoffPolicy describes the retry behavior of an operation: how many
// attempts to make and how long to wait between them. The wait starts
// at InitialDelay and doubles after every failure, with a random jitter
// of up to half the current base added on top. Successive delays never
// decrease and never exceed MaxDelay.
type BackoffPolicy struct {
	// InitialDelay is the base delay after the first failed attempt.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// MaxAttempts is the total number of attempts before the operation
	// fails with ErrRetryExhausted. Values below 1 are treated as 1.
	MaxAttempts int

	// Rand overrides the jitter source. Nil uses the shared global
	// source.
	Rand *rand.Rand
}

// DefaultBackoffPolicy returns the policy used when none is configured:
// 5 attempts starting at 500ms, capped at 5s.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		MaxAttempts:  5,
	}
}

// start begins a fresh retry sequence under this policy.
func (p BackoffPolicy) start() *backoffState {
	return &backoffState{policy: p, base: p.InitialDelay}
}

func (p BackoffPolicy) jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	if p.Rand != nil {
		return time.Duration(p.Rand.Int64N(int64(max) + 1))
	}

	return time.Duration(rand.Int64N(int64(max) + 1))
}

// backoffState tracks one retry sequence. nextDelay is called after
// each failed attempt; it either returns how long to wait before the
// next attempt or reports the sequence exhausted.
type backoffState struct {
	policy   BackoffPolicy
	base     time.Duration
	attempts int
}

// nextDelay records a failed attempt and returns the delay to wait
// before the next one. Once MaxAttempts failures have been recorded it
// returns ErrRetryExhausted.
func (s *backoffState) nextDelay() (time.Duration, error) {
	s.attempts++

	maxAttempts := s.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	if s.attempts >= maxAttempts {
		return 0, ErrRetryExhausted
	}

	delay := s.base + s.policy.jitter(s.base/2)
	if delay > s.policy.MaxDelay {
		delay = s.policy.MaxDelay
	}

	s.base *= 2
	if s.base > s.policy.MaxDelay {
		s.base = s.policy.MaxDelay
	}

	return delay, nil
}
