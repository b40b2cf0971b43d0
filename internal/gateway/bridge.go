package gateway

import (
	"fmt"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/soyeahso/sidebar/internal/runtime"
)

// NewBridge builds the runtime the bridge route delegates to: one agent
// registry entry, the empty service adapter, bound to /api/<name>. It is
// called once at startup; the returned handler forwards every request
// untouched.
func NewBridge(cfg config.BridgeConfig, log *logging.Logger) (*runtime.Endpoint, error) {
	agent, err := runtime.NewHTTPAgent(cfg.Agent.Name, cfg.Agent.URL)
	if err != nil {
		return nil, fmt.Errorf("bridge agent: %w", err)
	}

	rt, err := runtime.New(
		runtime.WithAgent(agent),
		runtime.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("bridge runtime: %w", err)
	}

	return runtime.NewEndpoint(runtime.EndpointConfig{
		Runtime:        rt,
		ServiceAdapter: runtime.EmptyAdapter{},
		Endpoint:       cfg.Endpoint(),
	})
}
