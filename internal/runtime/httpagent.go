package runtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/version"
)

// forwardedHeaders are the client request headers passed on to the agent.
var forwardedHeaders = []string{
	"Content-Type",
	"Accept",
	"Accept-Language",
	"X-Request-ID",
}

// HTTPAgent reaches an agent that speaks AG-UI over plain HTTP: one POST per
// run, answered with an event stream.
type HTTPAgent struct {
	name   string
	url    string
	client *http.Client
}

// HTTPAgentOption configures an HTTPAgent.
type HTTPAgentOption func(*HTTPAgent)

// WithHTTPClient replaces the default client. The default has no timeout,
// since a run streams for as long as the agent keeps talking.
func WithHTTPClient(c *http.Client) HTTPAgentOption {
	return func(a *HTTPAgent) {
		a.client = c
	}
}

// NewHTTPAgent creates an agent for the given absolute URL.
func NewHTTPAgent(name, rawURL string, opts ...HTTPAgentOption) (*HTTPAgent, error) {
	if name == "" {
		return nil, fmt.Errorf("agent name is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("agent %s: parsing url: %w", name, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("agent %s: url must be absolute, got %q", name, rawURL)
	}

	a := &HTTPAgent{
		name:   name,
		url:    rawURL,
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name implements Agent.
func (a *HTTPAgent) Name() string { return a.name }

// URL implements Agent.
func (a *HTTPAgent) URL() string { return a.url }

// Run implements Agent.
func (a *HTTPAgent) Run(ctx context.Context, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, body)
	if err != nil {
		return nil, fmt.Errorf("agent %s: building request: %w", a.name, err)
	}

	for _, h := range forwardedHeaders {
		if v := header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", agui.ContentType)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, err)
	}
	return resp, nil
}
