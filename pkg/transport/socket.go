package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"collabsync/pkg/exception"

	"github.com/gorilla/websocket"
)

// closeNormal is the normal-closure code sent on manual disconnect.
// All non-manual closures are treated identically regardless of code.
const closeNormal = websocket.CloseNormalClosure

const defaultHandshakeTimeout = 10 * time.Second

// Socket is a single established channel to the collaboration server.
// It is owned exclusively by the Client and never exposed to callers.
type Socket interface {
	// ReadText blocks until the next text frame arrives or the socket
	// fails. A returned error means the socket is dead.
	ReadText() ([]byte, error)
	// WriteText transmits one text frame.
	WriteText(data []byte) error
	// Close sends a close frame with the given code and reason, then
	// tears the socket down. Safe to call more than once.
	Close(code int, reason string) error
	// Open reports whether the socket is still usable. This is the
	// authoritative liveness check; lifecycle state alone can lag behind
	// an asynchronous closure.
	Open() bool
}

// Dialer establishes new sockets.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Socket, error)
}

type webSocketDialer struct {
	handshakeTimeout time.Duration
}

func newWebSocketDialer() *webSocketDialer {
	return &webSocketDialer{handshakeTimeout: defaultHandshakeTimeout}
}

func (d *webSocketDialer) Dial(ctx context.Context, endpoint string) (Socket, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return &webSocket{conn: conn}, nil
}

// webSocket adapts a gorilla connection to the Socket interface and tracks
// liveness, which gorilla does not expose directly.
type webSocket struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  atomic.Bool
}

func (s *webSocket) ReadText() ([]byte, error) {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.closed.Store(true)
			return nil, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (s *webSocket) WriteText(data []byte) error {
	if s.closed.Load() {
		return exception.ErrSocketNotOpen
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.closed.Store(true)
		return err
	}
	return nil
}

func (s *webSocket) Close(code int, reason string) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	payload := websocket.FormatCloseMessage(code, reason)
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage, payload, time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.conn.Close()
}

func (s *webSocket) Open() bool {
	return !s.closed.Load()
}
