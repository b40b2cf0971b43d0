package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/sidebar/internal/version"
)

// hopHeaders are connection-scoped and never copied from the agent's response.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// EndpointConfig binds a runtime and service adapter to a path.
type EndpointConfig struct {
	Runtime        *Runtime
	ServiceAdapter ServiceAdapter
	Endpoint       string // e.g. "/api/copilotkit"
}

// Endpoint serves the runtime under a fixed path:
//
//	POST {endpoint}                   run the default agent
//	POST {endpoint}/agent/{name}/run  run a named agent
//	GET  {endpoint}/info              describe the registry
type Endpoint struct {
	rt      *Runtime
	adapter ServiceAdapter
	path    string
}

// NewEndpoint validates cfg and returns the endpoint handler.
func NewEndpoint(cfg EndpointConfig) (*Endpoint, error) {
	if cfg.Runtime == nil {
		return nil, errors.New("endpoint: runtime is required")
	}
	if cfg.ServiceAdapter == nil {
		return nil, errors.New("endpoint: service adapter is required")
	}
	if !strings.HasPrefix(cfg.Endpoint, "/") {
		return nil, fmt.Errorf("endpoint: path must be absolute, got %q", cfg.Endpoint)
	}
	return &Endpoint{
		rt:      cfg.Runtime,
		adapter: cfg.ServiceAdapter,
		path:    strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// Path returns the mount path.
func (e *Endpoint) Path() string { return e.path }

// ServeHTTP implements http.Handler.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.HandleRequest(w, r)
}

// HandleRequest routes a request below the endpoint path.
func (e *Endpoint) HandleRequest(w http.ResponseWriter, r *http.Request) {
	rest, ok := strings.CutPrefix(r.URL.Path, e.path)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "path outside runtime endpoint: "+r.URL.Path)
		return
	}
	rest = strings.Trim(rest, "/")

	switch {
	case rest == "":
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		agent, err := e.rt.DefaultAgent()
		if err != nil {
			writeError(w, http.StatusBadRequest, "agent_required", err.Error())
			return
		}
		e.run(w, r, agent)

	case rest == "info":
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		e.info(w)

	case strings.HasPrefix(rest, "agent/"):
		parts := strings.Split(rest, "/")
		if len(parts) != 3 || parts[2] != "run" || parts[1] == "" {
			writeError(w, http.StatusNotFound, "not_found", "unknown runtime route: "+r.URL.Path)
			return
		}
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		agent, err := e.rt.Agent(parts[1])
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown_agent", err.Error())
			return
		}
		e.run(w, r, agent)

	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown runtime route: "+r.URL.Path)
	}
}

// run forwards the request to agent and streams the response back as-is.
func (e *Endpoint) run(w http.ResponseWriter, r *http.Request, agent Agent) {
	start := time.Now()
	log := e.rt.log.With("agent", agent.Name())

	resp, err := agent.Run(r.Context(), r.Body, r.Header)
	if err != nil {
		if r.Context().Err() != nil {
			log.Debug().Err(err).Msg("client went away before agent answered")
			return
		}
		log.Warn().Err(err).Str("url", agent.URL()).Msg("agent unreachable")
		writeError(w, http.StatusBadGateway, "agent_unreachable", err.Error())
		return
	}
	defer resp.Body.Close()

	for k, vv := range resp.Header {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	n, err := copyFlushing(w, resp.Body)
	ev := log.Debug()
	if err != nil && r.Context().Err() == nil {
		ev = log.Warn().Err(err)
	}
	ev.Int("status", resp.StatusCode).
		Int64("bytes", n).
		Dur("duration", time.Since(start)).
		Msg("agent run finished")
}

// copyFlushing copies src to w, flushing after every chunk so event
// streams reach the client as the agent produces them.
func copyFlushing(w http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// Info describes the runtime to clients.
type Info struct {
	Version string               `json:"version"`
	Adapter string               `json:"adapter"`
	Agents  map[string]AgentInfo `json:"agents"`
}

// AgentInfo describes one registered agent.
type AgentInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (e *Endpoint) info(w http.ResponseWriter) {
	info := Info{
		Version: version.Version,
		Adapter: e.adapter.Name(),
		Agents:  make(map[string]AgentInfo, len(e.rt.agents)),
	}
	for name, a := range e.rt.agents {
		info.Agents[name] = AgentInfo{Name: name, URL: a.URL()}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	return false
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
