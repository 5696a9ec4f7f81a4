package transport

import "time"

// scheduler computes exponential reconnect delays and tracks the attempt
// counter. Not safe for concurrent use; the Client serializes access.
type scheduler struct {
	base        time.Duration
	maxAttempts int
	cap         time.Duration

	attempts int
}

func newScheduler(base time.Duration, maxAttempts int, cap time.Duration) *scheduler {
	return &scheduler{
		base:        base,
		maxAttempts: maxAttempts,
		cap:         cap,
	}
}

// Next returns the delay before the next retry, or false once the attempt
// budget is spent. The counter increments before the delay for that attempt
// is computed, so the n-th scheduled retry (0-based) waits base * 2^n.
func (s *scheduler) Next() (time.Duration, bool) {
	if s.attempts >= s.maxAttempts {
		return 0, false
	}
	s.attempts++

	delay := s.base
	if s.cap > 0 && delay >= s.cap {
		return s.cap, true
	}
	for i := 1; i < s.attempts; i++ {
		delay *= 2
		if s.cap > 0 && delay >= s.cap {
			return s.cap, true
		}
	}
	return delay, true
}

// Reset clears the attempt counter. Called on a successful connected
// transition and on an explicit Connect, never on individual attempts.
func (s *scheduler) Reset() {
	s.attempts = 0
}

// Attempts returns the number of retries counted in the current cycle.
func (s *scheduler) Attempts() int {
	return s.attempts
}
