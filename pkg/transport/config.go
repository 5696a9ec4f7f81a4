package transport

import "time"

const (
	// DefaultReconnectInterval is the base delay for exponential backoff.
	DefaultReconnectInterval = 3 * time.Second
	// DefaultMaxReconnectAttempts is the retry budget before the client
	// gives up and parks in StateError.
	DefaultMaxReconnectAttempts = 10
	// DefaultHeartbeatInterval is the period between ping emissions.
	DefaultHeartbeatInterval = 30 * time.Second
)

// Config is the immutable construction-time configuration of a Client.
type Config struct {
	// Endpoint is the WebSocket address to connect to. Required.
	Endpoint string

	// ReconnectInterval is the base for exponential backoff; the n-th
	// scheduled retry waits ReconnectInterval * 2^n. Optional; default 3s.
	ReconnectInterval time.Duration
	// MaxReconnectAttempts caps scheduled retries per cycle; once reached
	// the client stays in StateError until Connect is called again.
	// Optional; default 10.
	MaxReconnectAttempts int
	// HeartbeatInterval is the period between ping emissions while
	// connected. Optional; default 30s.
	HeartbeatInterval time.Duration

	// MaxReconnectDelay caps the backoff delay when >0. Zero leaves the
	// delay doubling without bound.
	MaxReconnectDelay time.Duration
	// EnforceHeartbeatTimeout forces the socket closed when a ping goes
	// unanswered for HeartbeatTimeout, handing recovery to the reconnect
	// path. Off by default: an unanswered ping alone does not tear the
	// channel down.
	EnforceHeartbeatTimeout bool
	// HeartbeatTimeout is the pong deadline when enforcement is on.
	// Optional; default 2 * HeartbeatInterval.
	HeartbeatTimeout time.Duration
	// StrictOrdering retries a failed transmission in place and halts the
	// flush, preserving FIFO under failure. When off, a failed message is
	// re-enqueued at the back, which can reorder relative to strict FIFO.
	StrictOrdering bool

	// Dialer establishes sockets. Optional; default gorilla/websocket
	// dialer. Overridable for tests.
	Dialer Dialer
}

func (c Config) withDefaults() Config {
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = DefaultReconnectInterval
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.EnforceHeartbeatTimeout && c.HeartbeatTimeout <= 0 {
		c.HeartbeatTimeout = 2 * c.HeartbeatInterval
	}
	if c.Dialer == nil {
		c.Dialer = newWebSocketDialer()
	}
	return c
}
