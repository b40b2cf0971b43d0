package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
)

// bridgeNamePattern keeps the bridge name a single path segment.
var bridgeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	if !bridgeNamePattern.MatchString(cfg.Bridge.Name) {
		issues = append(issues, ValidationIssue{
			Path:    "bridge.name",
			Message: fmt.Sprintf("must be a single path segment of letters, digits, '-' or '_', got %q", cfg.Bridge.Name),
		})
	}

	if cfg.Bridge.Agent.Name == "" {
		issues = append(issues, ValidationIssue{
			Path:    "bridge.agent.name",
			Message: "name is required",
		})
	}

	if issue, ok := validateAgentURL(cfg.Bridge.Agent.URL); !ok {
		issues = append(issues, issue)
	}

	if cfg.Panel.DefaultThemeColor == "" {
		issues = append(issues, ValidationIssue{
			Path:    "panel.defaultThemeColor",
			Message: "a default theme color is required",
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}

func validateAgentURL(raw string) (ValidationIssue, bool) {
	if raw == "" {
		return ValidationIssue{Path: "bridge.agent.url", Message: "url is required"}, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ValidationIssue{Path: "bridge.agent.url", Message: err.Error()}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationIssue{
			Path:    "bridge.agent.url",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		}, false
	}
	if u.Host == "" {
		return ValidationIssue{Path: "bridge.agent.url", Message: "host is required"}, false
	}
	return ValidationIssue{}, true
}
