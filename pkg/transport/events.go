package transport

import "sync"

// Handlers holds optional lifecycle callbacks. Every field may be nil.
type Handlers struct {
	// OnOpen fires after the channel reaches StateConnected.
	OnOpen func()
	// OnClose fires when the channel closes, manually or not.
	OnClose func()
	// OnError fires on dial and transmission failures. Failures are never
	// returned from the public API; this is the only error surface.
	OnError func(err error)
	// OnMessage fires for every well-formed inbound message except pong,
	// which the heartbeat monitor swallows.
	OnMessage func(msg Message)
	// OnStateChange fires on actual state changes only; repeated
	// transitions to the same state are suppressed.
	OnStateChange func(state State)
}

// dispatcher fans lifecycle events out to the registered handlers.
// Registration merges field-by-field: a non-nil field replaces the previous
// handler for that event, nil fields leave it untouched.
type dispatcher struct {
	mu        sync.Mutex
	handlers  Handlers
	lastState State
}

func newDispatcher(initial State) *dispatcher {
	return &dispatcher{lastState: initial}
}

func (d *dispatcher) Register(h Handlers) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h.OnOpen != nil {
		d.handlers.OnOpen = h.OnOpen
	}
	if h.OnClose != nil {
		d.handlers.OnClose = h.OnClose
	}
	if h.OnError != nil {
		d.handlers.OnError = h.OnError
	}
	if h.OnMessage != nil {
		d.handlers.OnMessage = h.OnMessage
	}
	if h.OnStateChange != nil {
		d.handlers.OnStateChange = h.OnStateChange
	}
}

// Handlers run outside the dispatcher lock so they may call back into the
// Client or re-register without deadlocking.

func (d *dispatcher) Open() {
	d.mu.Lock()
	fn := d.handlers.OnOpen
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *dispatcher) Close() {
	d.mu.Lock()
	fn := d.handlers.OnClose
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *dispatcher) Error(err error) {
	d.mu.Lock()
	fn := d.handlers.OnError
	d.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (d *dispatcher) Message(msg Message) {
	d.mu.Lock()
	fn := d.handlers.OnMessage
	d.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

func (d *dispatcher) StateChange(state State) {
	d.mu.Lock()
	if state == d.lastState {
		d.mu.Unlock()
		return
	}
	d.lastState = state
	fn := d.handlers.OnStateChange
	d.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
