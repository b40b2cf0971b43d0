package config

// Config is the root configuration for sidebar.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Bridge  BridgeConfig  `yaml:"bridge,omitempty"`
	Panel   PanelConfig   `yaml:"panel,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP server that hosts the page and the bridge.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "auto" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// BridgeConfig names the bridge route and the remote agent it forwards to.
type BridgeConfig struct {
	Name  string     `yaml:"name,omitempty"` // served at /api/<name>
	Agent AgentEntry `yaml:"agent,omitempty"`
}

// Endpoint returns the path the bridge is mounted on.
func (b BridgeConfig) Endpoint() string {
	return "/api/" + b.Name
}

// AgentEntry is the single registry entry handed to the runtime.
type AgentEntry struct {
	Name string `yaml:"name,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// PanelConfig controls the rendered assistant page.
type PanelConfig struct {
	Title             string `yaml:"title,omitempty"`
	Intro             string `yaml:"intro,omitempty"` // markdown
	DefaultThemeColor string `yaml:"defaultThemeColor,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}
