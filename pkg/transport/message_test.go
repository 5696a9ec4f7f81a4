package transport

import (
	"testing"

	"collabsync/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesFlatObject(t *testing.T) {
	msg := Message{
		Type:   "cursor",
		Fields: map[string]any{"pos": 7, "user": "ada"},
	}
	data, err := msg.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"pos":7,"type":"cursor","user":"ada"}`, string(data))
}

func TestEncodeRejectsEmptyType(t *testing.T) {
	_, err := Message{Fields: map[string]any{"x": 1}}.Encode()
	assert.ErrorIs(t, err, exception.ErrMessageType)
}

func TestEncodeDoesNotMutateFields(t *testing.T) {
	fields := map[string]any{"a": 1}
	_, err := Message{Type: "edit", Fields: fields}.Encode()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, fields)
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		wantType string
		wantErr  error
	}{
		{"well formed", `{"type":"edit","text":"hi"}`, "edit", nil},
		{"type only", `{"type":"presence"}`, "presence", nil},
		{"invalid json", `{"type":`, "", exception.ErrMalformedMessage},
		{"not an object", `[1,2,3]`, "", exception.ErrMalformedMessage},
		{"null frame", `null`, "", exception.ErrMalformedMessage},
		{"missing type", `{"text":"hi"}`, "", exception.ErrMessageType},
		{"non-string type", `{"type":42}`, "", exception.ErrMessageType},
		{"empty type", `{"type":""}`, "", exception.ErrMessageType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.frame))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, msg.Type)
			if _, ok := msg.Fields["type"]; ok {
				t.Fatal("type discriminator leaked into Fields")
			}
		})
	}
}

func TestDecodePreservesPayloadFields(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"type":"edit","text":"hi","rev":3}`))
	require.NoError(t, err)

	text, ok := msg.Field("text")
	require.True(t, ok)
	assert.Equal(t, "hi", text)

	rev, ok := msg.Field("rev")
	require.True(t, ok)
	assert.Equal(t, float64(3), rev)

	_, ok = msg.Field("missing")
	assert.False(t, ok)
}
