package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/gateway"
	"github.com/soyeahso/sidebar/internal/hooks"
	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/soyeahso/sidebar/internal/panel"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port     int
		bind     string
		agentURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant page and the agent bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if agentURL != "" {
				cfg.Bridge.Agent.URL = agentURL
			}

			// The --log-level flag wins over the config file.
			if logLevel == "" {
				log = logging.NewStyled(cfg.Logging.ConsoleStyle, cfg.Logging.Level)
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			srv, err := buildServer(cfg)
			if err != nil {
				return err
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")
	cmd.Flags().StringVar(&agentURL, "agent-url", "", "override the agent URL")

	return cmd
}

// buildServer wires the hook manager, panel, bridge and gateway from cfg.
func buildServer(cfg config.Config) (*gateway.Server, error) {
	log := log
	hookMgr := hooks.NewManager(log)
	for _, event := range hooks.AllEvents {
		hookMgr.On(event, "trace", func(_ context.Context, p hooks.Payload) error {
			log.Sub("hooks").Trace().
				Str("event", p.Event).
				Interface("data", p.Data).
				Msg("hook fired")
			return nil
		})
	}
	hookMgr.On(hooks.EventThemeChanged, "log", func(_ context.Context, p hooks.Payload) error {
		log.Sub("panel").Info().
			Interface("color", p.Data["color"]).
			Interface("previous", p.Data["previous"]).
			Msg("theme color changed")
		return nil
	})

	pnl, err := panel.New(panel.Config{
		Title:             cfg.Panel.Title,
		Intro:             cfg.Panel.Intro,
		DefaultThemeColor: cfg.Panel.DefaultThemeColor,
		BridgePath:        cfg.Bridge.Endpoint(),
	}, hookMgr, log)
	if err != nil {
		return nil, fmt.Errorf("building panel: %w", err)
	}

	bridge, err := gateway.NewBridge(cfg.Bridge, log)
	if err != nil {
		return nil, err
	}

	return gateway.New(cfg, log,
		gateway.WithBridge(bridge),
		gateway.WithPanel(pnl),
		gateway.WithHooks(hookMgr),
	), nil
}
