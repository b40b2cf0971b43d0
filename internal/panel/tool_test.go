package panel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/soyeahso/sidebar/internal/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTheme counts writes so tests can assert the mutation ran once.
type recordingTheme struct {
	colors []string
}

func (r *recordingTheme) SetThemeColor(_ context.Context, color string) {
	r.colors = append(r.colors, color)
}

func newRegistry(t *testing.T) (*ToolRegistry, *Theme) {
	t.Helper()
	theme := NewTheme("#6366f1", nil)
	reg := NewToolRegistry(nil)
	reg.Register(NewSetThemeColorTool(theme))
	return reg, theme
}

func TestSetThemeColor_Declaration(t *testing.T) {
	tool := NewSetThemeColorTool(&recordingTheme{})

	assert.Equal(t, "set_theme_color", tool.Name())
	params := tool.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "theme_color", params[0].Name)
	assert.Equal(t, TypeString, params[0].Type)
	assert.Equal(t, "The theme color to set. Make sure to pick nice colors.", params[0].Description)
	assert.True(t, params[0].Required)
}

func TestSetThemeColor_ExecuteSetsColorOnce(t *testing.T) {
	rec := &recordingTheme{}
	tool := NewSetThemeColorTool(rec)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"theme_color":"#ff0000"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"#ff0000"}, rec.colors)
	assert.Equal(t, SetThemeColorResult{ThemeColor: "#ff0000"}, result)
}

func TestSetThemeColor_ExecuteWithoutArgumentStoresEmpty(t *testing.T) {
	rec := &recordingTheme{}
	tool := NewSetThemeColorTool(rec)

	_, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, rec.colors)
}

func TestSetThemeColor_ExecuteBadJSON(t *testing.T) {
	rec := &recordingTheme{}
	tool := NewSetThemeColorTool(rec)

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"theme_color":`))
	require.Error(t, err)
	assert.Empty(t, rec.colors)
}

func TestToolRegistry_Invoke(t *testing.T) {
	reg, theme := newRegistry(t)

	result, err := reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(`{"theme_color":"rebeccapurple"}`))
	require.NoError(t, err)
	assert.Equal(t, SetThemeColorResult{ThemeColor: "rebeccapurple"}, result)
	assert.Equal(t, "rebeccapurple", theme.Color())
}

func TestToolRegistry_Invoke_MissingArgument(t *testing.T) {
	reg, theme := newRegistry(t)

	for _, args := range []string{``, `{}`, `{"theme_color":null}`} {
		_, err := reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(args))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "args %q", args)
		assert.Equal(t, SetThemeColorName, verr.Tool)
		assert.Contains(t, verr.Issues, "theme_color is required")
	}
	assert.Equal(t, "#6366f1", theme.Color())
}

func TestToolRegistry_Invoke_WrongType(t *testing.T) {
	reg, theme := newRegistry(t)

	_, err := reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(`{"theme_color":5}`))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"theme_color must be a string, got number"}, verr.Issues)
	assert.Equal(t, "#6366f1", theme.Color())
}

func TestToolRegistry_Invoke_NotAnObject(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(`["#fff"]`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "arguments must be a JSON object")
}

func TestToolRegistry_Invoke_UnknownTool(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Invoke(context.Background(), "launch_rockets", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolRegistry_Invoke_EmitsHook(t *testing.T) {
	hm := testHooks()
	var seen []map[string]any
	hm.On(hooks.EventToolInvoked, "test", func(_ context.Context, p hooks.Payload) error {
		seen = append(seen, p.Data)
		return nil
	})

	reg := NewToolRegistry(hm)
	reg.Register(NewSetThemeColorTool(NewTheme("#6366f1", nil)))

	_, _ = reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(`{"theme_color":"#000"}`))
	_, _ = reg.Invoke(context.Background(), SetThemeColorName, json.RawMessage(`{}`))

	require.Len(t, seen, 2)
	assert.Equal(t, true, seen[0]["ok"])
	assert.Equal(t, false, seen[1]["ok"])
}

func TestToolRegistry_Definitions(t *testing.T) {
	reg, _ := newRegistry(t)

	defs := reg.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, SetThemeColorName, defs[0].Name)
	assert.NotEmpty(t, defs[0].Description)

	var schema struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal(defs[0].Parameters, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, "string", schema.Properties["theme_color"].Type)
	assert.Equal(t, []string{"theme_color"}, schema.Required)
}

func TestValidateArgs_IgnoresUndeclared(t *testing.T) {
	params := []Parameter{{Name: "a", Type: TypeBoolean}}
	assert.NoError(t, ValidateArgs("t", params, json.RawMessage(`{"a":true,"extra":1}`)))
	assert.NoError(t, ValidateArgs("t", params, json.RawMessage(`{}`)))
	assert.Error(t, ValidateArgs("t", params, json.RawMessage(`{"a":"yes"}`)))
}
