package panel

import (
	"context"
	"encoding/json"
	"fmt"
)

// SetThemeColorName is the name the agent calls the theme tool by.
const SetThemeColorName = "set_theme_color"

// SetThemeColorArgs are the typed arguments of set_theme_color.
type SetThemeColorArgs struct {
	ThemeColor string `json:"theme_color"`
}

// SetThemeColorResult is reported back to the agent.
type SetThemeColorResult struct {
	ThemeColor string `json:"themeColor"`
}

// SetThemeColorTool lets the agent recolor the sidebar. Any string is
// accepted as a color; the browser ignores values it cannot parse.
type SetThemeColorTool struct {
	theme ThemeSetter
}

// NewSetThemeColorTool binds the tool to the theme it writes.
func NewSetThemeColorTool(theme ThemeSetter) *SetThemeColorTool {
	return &SetThemeColorTool{theme: theme}
}

func (t *SetThemeColorTool) Name() string { return SetThemeColorName }

func (t *SetThemeColorTool) Description() string {
	return "Request a UI theme color change."
}

func (t *SetThemeColorTool) Parameters() []Parameter {
	return []Parameter{{
		Name:        "theme_color",
		Type:        TypeString,
		Description: "The theme color to set. Make sure to pick nice colors.",
		Required:    true,
	}}
}

// Execute assigns the color unconditionally. Called directly with no
// theme_color it stores the empty string.
func (t *SetThemeColorTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var a SetThemeColorArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("decoding %s arguments: %w", SetThemeColorName, err)
		}
	}
	t.theme.SetThemeColor(ctx, a.ThemeColor)
	return SetThemeColorResult{ThemeColor: a.ThemeColor}, nil
}
