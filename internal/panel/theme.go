package panel

import (
	"context"
	"sync"

	"github.com/soyeahso/sidebar/internal/hooks"
)

// ThemeSetter is the only way a tool may change the theme.
type ThemeSetter interface {
	SetThemeColor(ctx context.Context, color string)
}

// Theme holds the sidebar's primary color. The set_theme_color tool is its
// only writer; rendering and the live-update feed only read it.
type Theme struct {
	// writeMu serializes writers across the assignment and its change
	// event, so events reach listeners in write order.
	writeMu sync.Mutex

	mu    sync.RWMutex
	color string
	hooks *hooks.Manager
}

// NewTheme returns a theme initialised to defaultColor. hm may be nil.
func NewTheme(defaultColor string, hm *hooks.Manager) *Theme {
	return &Theme{color: defaultColor, hooks: hm}
}

// Color returns the current color.
func (t *Theme) Color() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.color
}

// SetThemeColor replaces the color (last write wins) and announces the
// change with hooks.EventThemeChanged. Hook handlers may read Color but
// must not write the theme.
func (t *Theme) SetThemeColor(ctx context.Context, color string) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	previous := t.color
	t.color = color
	t.mu.Unlock()

	t.hooks.Emit(ctx, hooks.EventThemeChanged, map[string]any{
		"color":    color,
		"previous": previous,
	})
}
