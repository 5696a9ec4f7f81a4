package transport

import "sync/atomic"

// Stats is a point-in-time snapshot of client activity counters.
type Stats struct {
	// Dials counts socket open attempts, initial and retried.
	Dials uint64
	// Reconnects counts scheduled retries that actually fired.
	Reconnects uint64
	// Sent counts successfully transmitted messages, flushed or direct.
	Sent uint64
	// Enqueued counts messages buffered because the channel was unusable
	// or a transmission attempt failed.
	Enqueued uint64
	// Received counts well-formed inbound messages, reserved types included.
	Received uint64
	// Malformed counts discarded inbound frames.
	Malformed uint64
}

// clientStats collects lightweight counters without locking.
type clientStats struct {
	dials      atomic.Uint64
	reconnects atomic.Uint64
	sent       atomic.Uint64
	enqueued   atomic.Uint64
	received   atomic.Uint64
	malformed  atomic.Uint64
}

// Snapshot captures the current counter values.
func (s *clientStats) Snapshot() Stats {
	return Stats{
		Dials:      s.dials.Load(),
		Reconnects: s.reconnects.Load(),
		Sent:       s.sent.Load(),
		Enqueued:   s.enqueued.Load(),
		Received:   s.received.Load(),
		Malformed:  s.malformed.Load(),
	}
}
