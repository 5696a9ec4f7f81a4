package transport

// State is the connection lifecycle state of a Client.
// Exactly one state is active at any instant; transitions happen only
// inside the Client, never from application code.
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
