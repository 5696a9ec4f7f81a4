package transport

import (
	"context"
	"sync"
	"time"

	"collabsync/pkg/exception"

	"github.com/yanun0323/logs"
)

// Client maintains a persistent bidirectional channel to a collaboration
// server. It survives network interruptions by reconnecting with
// exponential backoff and buffers outbound messages while the channel is
// unusable, so application messages are neither silently lost nor
// delivered out of order on the failure-free path.
//
// Nothing on the public API returns an error after construction; failures
// are modeled as state and observed through Handlers.
type Client struct {
	cfg    Config
	events *dispatcher
	stats  clientStats

	mu      sync.Mutex
	state   State
	sock    Socket
	gen     uint64 // socket generation; callbacks from replaced sockets are dropped
	manual  bool   // closure requested by the application
	backoff *scheduler
	queue   *outboundQueue
	hb      *heartbeat
	retry   *time.Timer // pending reconnect, nil when none
}

// NewClient builds a disconnected client. The configuration is fixed for
// the client's lifetime; call Connect to open the channel.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, exception.ErrEndpointRequired
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:     cfg,
		events:  newDispatcher(StateDisconnected),
		state:   StateDisconnected,
		backoff: newScheduler(cfg.ReconnectInterval, cfg.MaxReconnectAttempts, cfg.MaxReconnectDelay),
		queue:   newOutboundQueue(),
	}, nil
}

// On registers lifecycle handlers. Non-nil fields replace the previously
// registered handler for that event; nil fields keep the existing one.
func (c *Client) On(h Handlers) {
	c.events.Register(h)
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the channel is usable right now. It checks
// the socket as well as the state, because the socket can close
// asynchronously between the state update and this call.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected && c.sock != nil && c.sock.Open()
}

// Pending returns the number of buffered outbound messages.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// Stats returns a snapshot of activity counters.
func (c *Client) Stats() Stats {
	return c.stats.Snapshot()
}

// Connect opens the channel. It returns immediately; the outcome is
// observable only through state-change events. Calling Connect while
// already connecting or connected is a logged no-op, so at most one socket
// exists at a time. A fresh Connect resets the retry budget, which is how
// an application recovers from StateError.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected {
		state := c.state
		c.mu.Unlock()
		logs.Infof("connect ignored: client already %s", state)
		return
	}
	c.manual = false
	c.cancelRetryLocked()
	c.backoff.Reset()
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.events.StateChange(StateConnecting)
	go c.dial(gen)
}

// Disconnect closes the channel and suppresses reconnection. It is safe
// from any state; the client is StateDisconnected before it returns.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.manual = true
	c.cancelRetryLocked()
	c.stopHeartbeatLocked()
	sock := c.sock
	c.sock = nil
	c.gen++ // invalidate in-flight dials and read loops
	c.state = StateDisconnected
	c.mu.Unlock()

	if sock != nil {
		_ = sock.Close(closeNormal, "client disconnect")
		logs.Infof("disconnected from %s", c.cfg.Endpoint)
		c.events.Close()
	}
	c.events.StateChange(StateDisconnected)
}

// Send transmits msg immediately when the channel is open and buffers it
// otherwise. A transmission failure falls back to buffering. Send never
// fails from the caller's perspective. Reserved heartbeat types are
// transmitted or dropped, never buffered.
func (c *Client) Send(msg Message) {
	c.mu.Lock()
	sock := c.sock
	open := c.state == StateConnected && sock != nil && sock.Open()
	if !open {
		if reservedType(msg.Type) {
			// a stale ping or pong replayed after reconnect is meaningless
			c.mu.Unlock()
			return
		}
		c.queue.Enqueue(msg)
		c.stats.enqueued.Add(1)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	data, err := msg.Encode()
	if err != nil {
		logs.Errorf("drop unencodable %q message: %v", msg.Type, err)
		return
	}
	if err := sock.WriteText(data); err != nil {
		if !reservedType(msg.Type) {
			c.mu.Lock()
			c.queue.Enqueue(msg)
			c.mu.Unlock()
			c.stats.enqueued.Add(1)
		}
		c.events.Error(err)
		return
	}
	c.stats.sent.Add(1)
}

// dial attempts to open a socket for the given generation.
func (c *Client) dial(gen uint64) {
	c.stats.dials.Add(1)
	sock, err := c.cfg.Dialer.Dial(context.Background(), c.cfg.Endpoint)

	c.mu.Lock()
	if gen != c.gen || c.manual {
		c.mu.Unlock()
		if err == nil {
			_ = sock.Close(closeNormal, "superseded")
		}
		return
	}

	if err != nil {
		c.state = StateError
		scheduled := c.scheduleRetryLocked()
		c.mu.Unlock()

		logs.Errorf("dial %s failed: %v", c.cfg.Endpoint, err)
		c.events.Error(err)
		c.events.StateChange(StateError)
		if !scheduled {
			logs.Errorf("reconnect attempts exhausted after %d retries", c.cfg.MaxReconnectAttempts)
		}
		return
	}

	c.sock = sock
	c.state = StateConnected
	c.backoff.Reset()
	timeout := time.Duration(0)
	if c.cfg.EnforceHeartbeatTimeout {
		timeout = c.cfg.HeartbeatTimeout
	}
	c.hb = startHeartbeat(c.cfg.HeartbeatInterval, timeout, c.Send, func() {
		logs.Errorf("heartbeat timeout: no pong within %s", c.cfg.HeartbeatTimeout)
		_ = sock.Close(closeNormal, "heartbeat timeout")
	})
	c.mu.Unlock()

	logs.Infof("connected to %s", c.cfg.Endpoint)
	go c.readLoop(gen, sock)

	// drain the backlog before announcing the connection; a send issued
	// from OnOpen or OnStateChange must land behind the buffered messages
	c.flush(gen, sock)
	c.events.StateChange(StateConnected)
	c.events.Open()
}

// readLoop consumes inbound frames until the socket dies.
func (c *Client) readLoop(gen uint64, sock Socket) {
	for {
		data, err := sock.ReadText()
		if err != nil {
			c.handleClosed(gen, err)
			return
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			c.stats.malformed.Add(1)
			logs.Errorf("discard malformed inbound frame: %v", err)
			continue
		}
		c.stats.received.Add(1)

		switch msg.Type {
		case TypePong:
			c.mu.Lock()
			hb := c.hb
			c.mu.Unlock()
			if hb != nil {
				hb.Pong()
			}
		case TypePing:
			// peer liveness probe; answer and keep it internal
			c.Send(Message{Type: TypePong})
		default:
			c.events.Message(msg)
		}
	}
}

// handleClosed reacts to a dead socket: manual closures were already
// handled by Disconnect, anything else schedules a reconnect.
func (c *Client) handleClosed(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.stopHeartbeatLocked()
	c.sock = nil
	if c.manual || c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateReconnecting
	c.scheduleRetryLocked() // parks in StateError when the budget is spent
	state := c.state
	c.mu.Unlock()

	logs.Infof("connection to %s lost: %v", c.cfg.Endpoint, err)
	c.events.Close()
	c.events.Error(err)
	c.events.StateChange(state)
}

// scheduleRetryLocked arms the reconnect timer for the next backoff delay.
// It reports false once the retry budget is spent, in which case the
// caller parks the client in StateError.
func (c *Client) scheduleRetryLocked() bool {
	delay, ok := c.backoff.Next()
	if !ok {
		c.state = StateError
		return false
	}
	logs.Infof("reconnecting to %s in %s (attempt %d/%d)",
		c.cfg.Endpoint, delay, c.backoff.Attempts(), c.cfg.MaxReconnectAttempts)
	c.retry = time.AfterFunc(delay, c.retryFire)
	return true
}

// retryFire runs when the backoff timer elapses and starts the next
// connection attempt.
func (c *Client) retryFire() {
	c.mu.Lock()
	c.retry = nil
	if c.manual || (c.state != StateReconnecting && c.state != StateError) {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.stats.reconnects.Add(1)
	c.events.StateChange(StateConnecting)
	c.dial(gen)
}

// flush drains the outbound queue once, immediately after the connected
// transition. It stops when the queue empties or the channel stops being
// connected; remaining messages keep their order for the next flush.
func (c *Client) flush(gen uint64, sock Socket) {
	for {
		c.mu.Lock()
		if gen != c.gen || c.state != StateConnected {
			c.mu.Unlock()
			return
		}
		msg, ok := c.queue.Dequeue()
		c.mu.Unlock()
		if !ok {
			return
		}

		data, err := msg.Encode()
		if err != nil {
			logs.Errorf("drop unencodable %q message: %v", msg.Type, err)
			continue
		}
		if err := sock.WriteText(data); err != nil {
			c.mu.Lock()
			if c.cfg.StrictOrdering {
				// retry in place on the next flush
				c.queue.PushFront(msg)
			} else {
				// back of the queue; one failing frame must not block the rest
				c.queue.Enqueue(msg)
			}
			c.mu.Unlock()
			c.events.Error(err)
			return
		}
		c.stats.sent.Add(1)
	}
}

func (c *Client) cancelRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

func (c *Client) stopHeartbeatLocked() {
	if c.hb != nil {
		c.hb.Stop()
		c.hb = nil
	}
}
