package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/gateway"
	"github.com/soyeahso/sidebar/internal/panel"
	"github.com/soyeahso/sidebar/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and the state of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sidebar %s (commit %s)\n\n", version.Version, version.Commit)
			fmt.Fprintf(out, "Config:  %s\n", paths.Config)

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Fprintf(out, "Server:  port=%d bind=%s\n", cfg.Server.Port, cfg.Server.Bind)
			fmt.Fprintf(out, "Bridge:  %s -> %s (%s)\n", cfg.Bridge.Endpoint(), cfg.Bridge.Agent.URL, cfg.Bridge.Agent.Name)
			fmt.Fprintf(out, "Panel:   title=%q default=%s\n", cfg.Panel.Title, cfg.Panel.DefaultThemeColor)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			if server == "" {
				server = serverURL(cfg)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
			defer cancel()

			fmt.Fprintln(out)
			var health gateway.HealthResponse
			if err := getJSON(ctx, http.DefaultClient, server+"/health", &health); err != nil {
				fmt.Fprintf(out, "Running: no (%s)\n", server)
				return nil
			}
			fmt.Fprintf(out, "Running: %s version=%s pages=%d uptime=%s\n",
				server, health.Version, health.Clients,
				(time.Duration(health.UptimeMs) * time.Millisecond).Round(time.Second))

			var theme gateway.ThemePayload
			if err := getJSON(ctx, http.DefaultClient, server+panel.ThemePath, &theme); err == nil {
				fmt.Fprintf(out, "Theme:   %s %s\n", theme.Color, swatch(theme.Color))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL of the running server (default from config)")
	return cmd
}
