package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	frame, err := NewRequest("req-1", "theme.get", nil)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeRequest, frame.Type)
	assert.Equal(t, "req-1", frame.ID)
	assert.Equal(t, "theme.get", frame.Method)
}

func TestNewResponse(t *testing.T) {
	frame, err := NewResponse("req-1", ThemePayload{Color: "#6366f1"})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeResponse, frame.Type)
	require.NotNil(t, frame.OK)
	assert.True(t, *frame.OK)
	assert.Nil(t, frame.Error)
	assert.JSONEq(t, `{"color":"#6366f1"}`, string(frame.Payload))
}

func TestNewErrorResponse(t *testing.T) {
	frame := NewErrorResponse("req-1", ErrorShape{Code: "method_not_found", Message: "unknown method: x"})

	require.NotNil(t, frame.OK)
	assert.False(t, *frame.OK)
	require.NotNil(t, frame.Error)
	assert.Equal(t, "method_not_found", frame.Error.Code)
	assert.Empty(t, frame.Payload)
}

func TestNewEvent_WireShape(t *testing.T) {
	frame, err := NewEvent(EventThemeChanged, ThemePayload{Color: "teal", Previous: "#6366f1"}, 7)
	require.NoError(t, err)

	data, err := json.Marshal(frame)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"event","event":"theme.changed","payload":{"color":"teal","previous":"#6366f1"},"seq":7}`,
		string(data))
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(EventThemeChanged, make(chan int), 1)
	assert.Error(t, err)
}
