package transport

import (
	"encoding/json"

	"collabsync/pkg/exception"

	"github.com/yanun0323/errors"
)

// Reserved message types consumed by the heartbeat monitor. They never
// reach application subscribers.
const (
	TypePing = "ping"
	TypePong = "pong"
)

// reservedType reports whether t is heartbeat traffic owned by the
// transport. Reserved messages are only meaningful on a live channel and
// are never buffered for later delivery.
func reservedType(t string) bool {
	return t == TypePing || t == TypePong
}

// Message is an opaque application message: a type discriminator plus an
// open set of payload fields. The transport never interprets Fields.
type Message struct {
	Type   string
	Fields map[string]any
}

// Field returns a payload field by name.
func (m Message) Field(key string) (any, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// Encode serializes the message as a flat JSON object with a "type" field.
func (m Message) Encode() ([]byte, error) {
	if m.Type == "" {
		return nil, exception.ErrMessageType
	}
	obj := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		obj[k] = v
	}
	obj["type"] = m.Type
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return data, nil
}

// DecodeMessage parses a wire frame into a Message. Frames that are not a
// JSON object, or that lack a string "type" field, are rejected.
func DecodeMessage(data []byte) (Message, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return Message{}, errors.Wrap(exception.ErrMalformedMessage, err.Error())
	}
	if obj == nil {
		return Message{}, exception.ErrMalformedMessage
	}
	typ, ok := obj["type"].(string)
	if !ok || typ == "" {
		return Message{}, exception.ErrMessageType
	}
	delete(obj, "type")
	return Message{Type: typ, Fields: obj}, nil
}
