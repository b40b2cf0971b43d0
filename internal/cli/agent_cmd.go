package cli

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/runtime"
	"github.com/spf13/cobra"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Inspect the agent behind the bridge",
	}

	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentInfoCmd())
	return cmd
}

func newAgentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured agent registry entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			a := cfg.Bridge.Agent
			fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s  (via %s)\n", a.Name, a.URL, cfg.Bridge.Endpoint())
			return nil
		},
	}
}

func newAgentInfoCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "info [agent-name]",
		Short: "Ask a running server which agents its runtime serves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if server == "" {
				server = serverURL(cfg)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			var info runtime.Info
			if err := getJSON(ctx, http.DefaultClient, server+cfg.Bridge.Endpoint()+"/info", &info); err != nil {
				return fmt.Errorf("querying %s: %w", server, err)
			}

			out := cmd.OutOrStdout()
			names := make([]string, 0, len(info.Agents))
			for name := range info.Agents {
				names = append(names, name)
			}
			sort.Strings(names)

			if len(args) > 0 {
				a, ok := info.Agents[args[0]]
				if !ok {
					return fmt.Errorf("agent not found: %s", args[0])
				}
				names = []string{a.Name}
			}

			fmt.Fprintf(out, "Runtime: version=%s adapter=%s\n", info.Version, info.Adapter)
			for _, name := range names {
				fmt.Fprintf(out, "Agent: %s\n", name)
				fmt.Fprintf(out, "  URL:   %s\n", info.Agents[name].URL)
				fmt.Fprintf(out, "  Route: POST %s%s/agent/%s/run\n", server, cfg.Bridge.Endpoint(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL of the running server (default from config)")
	return cmd
}
