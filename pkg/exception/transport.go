package exception

import "errors"

// Transport errors
var (
	ErrEndpointRequired = errors.New("transport: endpoint required")
	ErrSocketNotOpen    = errors.New("transport: socket not open")
	ErrMessageType      = errors.New("transport: message type missing or not a string")
	ErrMalformedMessage = errors.New("transport: malformed message")
)
