package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBuildServer_TracesHookEvents(t *testing.T) {
	var out syncBuffer
	log = logging.New(&out, "trace")
	t.Cleanup(func() { log = logging.New(nil, "silent") })

	srv, err := buildServer(config.Defaults())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/panel/tools/set_theme_color", "application/json",
		strings.NewReader(`{"theme_color":"teal"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	logs := out.String()
	assert.Contains(t, logs, `"message":"hook fired"`)
	assert.Contains(t, logs, `"event":"theme_changed"`)
	assert.Contains(t, logs, `"event":"tool_invoked"`)
	assert.Contains(t, logs, `"message":"theme color changed"`)
}
