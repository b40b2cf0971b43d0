// Package runtime is the chat runtime the bridge delegates to. It holds a
// read-only registry of remote agents and serves an endpoint that forwards
// runs to them, streaming the agent's answer back untouched.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/soyeahso/sidebar/internal/logging"
)

var (
	ErrUnknownAgent   = errors.New("unknown agent")
	ErrNoDefaultAgent = errors.New("no default agent: exactly one agent must be registered")
	ErrNoAgents       = errors.New("runtime needs at least one agent")
)

// Agent is a remote agent a run can be routed to.
type Agent interface {
	// Name is the registry key clients use to select the agent.
	Name() string

	// URL is the agent's network address.
	URL() string

	// Run forwards a run request body and returns the agent's response.
	// The caller closes the response body.
	Run(ctx context.Context, body io.Reader, header http.Header) (*http.Response, error)
}

// Runtime holds the agent registry. It is immutable once built and safe
// for concurrent use.
type Runtime struct {
	agents map[string]Agent
	log    *logging.Logger
}

// Option configures a Runtime.
type Option func(*Runtime) error

// WithAgent registers an agent under its name.
func WithAgent(a Agent) Option {
	return func(rt *Runtime) error {
		if a == nil {
			return errors.New("nil agent")
		}
		if _, dup := rt.agents[a.Name()]; dup {
			return fmt.Errorf("agent %q registered twice", a.Name())
		}
		rt.agents[a.Name()] = a
		return nil
	}
}

// WithLogger sets the runtime logger.
func WithLogger(log *logging.Logger) Option {
	return func(rt *Runtime) error {
		rt.log = log.Sub("runtime")
		return nil
	}
}

// New builds a runtime from options.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		agents: make(map[string]Agent),
		log:    logging.New(io.Discard, "silent"),
	}
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	if len(rt.agents) == 0 {
		return nil, ErrNoAgents
	}
	return rt, nil
}

// Agent looks up an agent by name.
func (rt *Runtime) Agent(name string) (Agent, error) {
	a, ok := rt.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, name)
	}
	return a, nil
}

// DefaultAgent returns the only registered agent.
func (rt *Runtime) DefaultAgent() (Agent, error) {
	if len(rt.agents) != 1 {
		return nil, ErrNoDefaultAgent
	}
	for _, a := range rt.agents {
		return a, nil
	}
	return nil, ErrNoDefaultAgent
}

// Agents returns the registered agent names, sorted.
func (rt *Runtime) Agents() []string {
	names := make([]string, 0, len(rt.agents))
	for name := range rt.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
