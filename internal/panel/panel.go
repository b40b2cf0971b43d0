// Package panel is the assistant page: it owns the theme color, the tools
// the agent may call, and renders the page that hosts the chat sidebar.
package panel

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/hooks"
	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Routes the page's script talks to. The gateway mounts handlers on them.
const (
	AssetsPath    = "/assets/"
	ToolsPath     = "/panel/tools"
	ThemePath     = "/panel/theme"
	WebSocketPath = "/ws"
)

// ThemeVariable is the CSS custom property the sidebar styles itself with.
const ThemeVariable = "--copilot-kit-primary-color"

//go:embed assets
var assets embed.FS

// Config describes what the page shows and where the bridge lives.
type Config struct {
	Title             string
	Intro             string // markdown
	DefaultThemeColor string
	BridgePath        string
}

// Panel ties the theme, the tool registry and the page together.
type Panel struct {
	cfg   Config
	theme *Theme
	tools *ToolRegistry
	page  *template.Template
	intro template.HTML
	log   *logging.Logger
}

// New builds the panel and registers set_theme_color against its theme.
func New(cfg Config, hm *hooks.Manager, log *logging.Logger) (*Panel, error) {
	page, err := template.ParseFS(assets, "assets/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	intro, err := renderMarkdown(cfg.Intro)
	if err != nil {
		return nil, err
	}

	theme := NewTheme(cfg.DefaultThemeColor, hm)
	tools := NewToolRegistry(hm)
	tools.Register(NewSetThemeColorTool(theme))

	p := &Panel{
		cfg:   cfg,
		theme: theme,
		tools: tools,
		page:  page,
		intro: intro,
		log:   log.Sub("panel"),
	}
	p.log.Debug().
		Str("theme", cfg.DefaultThemeColor).
		Str("bridge", cfg.BridgePath).
		Int("tools", len(tools.Definitions())).
		Msg("panel ready")
	return p, nil
}

// Theme returns the panel's theme state.
func (p *Panel) Theme() *Theme { return p.theme }

// Tools returns the panel's tool registry.
func (p *Panel) Tools() *ToolRegistry { return p.tools }

// bootstrap is handed to the sidebar script as JSON.
type bootstrap struct {
	BridgePath    string      `json:"bridgePath"`
	ToolsPath     string      `json:"toolsPath"`
	ThemePath     string      `json:"themePath"`
	WebSocketPath string      `json:"webSocketPath"`
	ThemeVariable string      `json:"themeVariable"`
	ThemeColor    string      `json:"themeColor"`
	Tools         []agui.Tool `json:"tools"`
}

type pageData struct {
	Title      string
	Intro      template.HTML
	ThemeColor template.CSS
	Bootstrap  bootstrap
}

// Render writes the page with the current theme color.
func (p *Panel) Render(w io.Writer) error {
	color := p.theme.Color()
	data := pageData{
		Title:      p.cfg.Title,
		Intro:      p.intro,
		ThemeColor: cssColor(color),
		Bootstrap: bootstrap{
			BridgePath:    p.cfg.BridgePath,
			ToolsPath:     ToolsPath,
			ThemePath:     ThemePath,
			WebSocketPath: WebSocketPath,
			ThemeVariable: ThemeVariable,
			ThemeColor:    color,
			Tools:         p.tools.Definitions(),
		},
	}

	var buf bytes.Buffer
	if err := p.page.Execute(&buf, data); err != nil {
		p.log.Error().Err(err).Msg("page template failed")
		return fmt.Errorf("rendering page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Assets serves the embedded script and stylesheet below AssetsPath.
func (p *Panel) Assets() http.Handler {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return http.StripPrefix(AssetsPath, http.FileServerFS(sub))
}

// cssColor returns color as the inline value of ThemeVariable. Values that
// could end the declaration or load a resource render empty; the sidebar
// script still applies them from the bootstrap.
func cssColor(color string) template.CSS {
	if strings.ContainsAny(color, ";{}<>\"'\\`\n\r\x00") {
		return ""
	}
	lower := strings.ToLower(color)
	for _, bad := range []string{"/*", "url(", "expression(", "image-set(", "@import"} {
		if strings.Contains(lower, bad) {
			return ""
		}
	}
	return template.CSS(color)
}

var (
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown converts the intro to sanitized HTML.
func renderMarkdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
