package transport

import (
	"sync"
	"time"
)

// heartbeat emits periodic ping messages while the channel is connected.
// Pongs are acknowledgements only; unless a timeout is set, a silent peer
// triggers no action.
type heartbeat struct {
	interval time.Duration
	timeout  time.Duration // 0 disables liveness enforcement
	send     func(Message)
	expire   func()

	pong     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func startHeartbeat(interval, timeout time.Duration, send func(Message), expire func()) *heartbeat {
	h := &heartbeat{
		interval: interval,
		timeout:  timeout,
		send:     send,
		expire:   expire,
		pong:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *heartbeat) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var deadline *time.Timer
	var expired <-chan time.Time
	defer func() {
		if deadline != nil {
			deadline.Stop()
		}
	}()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.send(Message{Type: TypePing})
			if h.timeout > 0 && deadline == nil {
				deadline = time.NewTimer(h.timeout)
				expired = deadline.C
			}
		case <-h.pong:
			if deadline != nil {
				deadline.Stop()
				deadline = nil
				expired = nil
			}
		case <-expired:
			h.expire()
			return
		}
	}
}

// Pong records a liveness acknowledgement from the peer.
func (h *heartbeat) Pong() {
	select {
	case h.pong <- struct{}{}:
	default:
	}
}

// Stop halts ping emission. Safe to call more than once.
func (h *heartbeat) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}
