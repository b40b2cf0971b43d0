package config

import "fmt"

// Built-in defaults. DefaultAgentURL is where a locally started agent listens.
const (
	DefaultPort       = 3000
	DefaultBind       = "loopback"
	DefaultBridgeName = "copilotkit"
	DefaultAgentName  = "my_agent"
	DefaultAgentURL   = "http://localhost:8000/"
	DefaultTitle      = "Your App"
	DefaultThemeColor = "#6366f1"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: DefaultPort,
			Bind: DefaultBind,
		},
		Bridge: BridgeConfig{
			Name: DefaultBridgeName,
			Agent: AgentEntry{
				Name: DefaultAgentName,
				URL:  DefaultAgentURL,
			},
		},
		Panel: PanelConfig{
			Title:             DefaultTitle,
			DefaultThemeColor: DefaultThemeColor,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
