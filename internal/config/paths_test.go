package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIDEBAR_HOME", dir)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.Config)
}

func TestResolvePathsDefault(t *testing.T) {
	t.Setenv("SIDEBAR_HOME", "")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, defaultBaseDir, filepath.Base(p.Base))
}

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"bridge.agent.url", []string{"bridge", "agent", "url"}, false},
		{"panel", []string{"panel"}, false},
		{"", nil, true},
		{"bridge..url", nil, true},
		{".bridge", nil, true},
		{"bridge.", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetValueAtPath(t *testing.T) {
	root := map[string]any{
		"bridge": map[string]any{
			"name": "copilotkit",
			"agent": map[string]any{
				"url": "http://localhost:8000/",
			},
		},
	}

	val, ok := GetValueAtPath(root, []string{"bridge", "agent", "url"})
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8000/", val)

	_, ok = GetValueAtPath(root, []string{"bridge", "missing"})
	assert.False(t, ok)

	_, ok = GetValueAtPath(root, []string{"bridge", "name", "sub"})
	assert.False(t, ok, "name is a string, not a map")
}

func TestSetValueAtPath(t *testing.T) {
	root := map[string]any{"server": "not-a-map"}

	SetValueAtPath(root, []string{"server", "port"}, 8080)
	val, ok := GetValueAtPath(root, []string{"server", "port"})
	require.True(t, ok)
	assert.Equal(t, 8080, val)

	SetValueAtPath(root, []string{"a", "b", "c"}, "deep")
	val, ok = GetValueAtPath(root, []string{"a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, "deep", val)
}

func TestUnsetValueAtPath(t *testing.T) {
	root := map[string]any{
		"panel": map[string]any{"title": "Your App"},
	}

	assert.True(t, UnsetValueAtPath(root, []string{"panel", "title"}))
	assert.False(t, UnsetValueAtPath(root, []string{"panel", "title"}))
	assert.False(t, UnsetValueAtPath(root, []string{"missing", "title"}))
}
