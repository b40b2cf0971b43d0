package gateway

import (
	"fmt"
	"testing"

	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func TestClientRegistryNew(t *testing.T) {
	reg := NewClientRegistry(testLog())
	require.NotNil(t, reg)
	assert.Equal(t, 0, reg.Count())
}

func TestClientRegistryAdd(t *testing.T) {
	reg := NewClientRegistry(testLog())

	reg.Add(&Client{ConnID: "conn-1", Remote: "127.0.0.1:5000"})
	assert.Equal(t, 1, reg.Count())

	reg.Add(&Client{ConnID: "conn-1", Remote: "127.0.0.1:5001"})
	assert.Equal(t, 1, reg.Count(), "same connection id replaces the entry")
}

func TestClientRegistryRemove(t *testing.T) {
	reg := NewClientRegistry(testLog())

	reg.Add(&Client{ConnID: "conn-1"})
	reg.Add(&Client{ConnID: "conn-2"})
	reg.Remove("conn-1")
	reg.Remove("nonexistent")

	assert.Equal(t, 1, reg.Count())

	reg.Remove("conn-2")
	assert.Equal(t, 0, reg.Count())
}

func TestClientRegistryCloseAll(t *testing.T) {
	reg := NewClientRegistry(testLog())

	for i := range 3 {
		reg.Add(&Client{ConnID: fmt.Sprintf("conn-%d", i)})
	}
	assert.Equal(t, 3, reg.Count())

	reg.CloseAll()
	assert.Equal(t, 0, reg.Count())
}

func TestClientSendAfterClose(t *testing.T) {
	c := &Client{ConnID: "conn-1"}
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.SendEvent(EventThemeChanged, ThemePayload{Color: "red"}, 1)
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestClientRegistryBroadcastSkipsClosed(t *testing.T) {
	reg := NewClientRegistry(testLog())
	reg.Add(&Client{ConnID: "conn-1", closed: true})

	// Must not panic on a client without a socket.
	reg.Broadcast(EventThemeChanged, ThemePayload{Color: "red"}, 1)
	assert.Equal(t, 1, reg.Count())
}
