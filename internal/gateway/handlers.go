package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/panel"
)

// maxToolArgsBytes caps the body of a tool invocation.
const maxToolArgsBytes = 1 << 20

// HealthResponse is returned by the health endpoint and the health RPC.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Clients  int    `json:"clients"`
	UptimeMs int64  `json:"uptimeMs"`
}

// ToolListResponse is returned by GET /panel/tools.
type ToolListResponse struct {
	Tools []agui.Tool `json:"tools"`
}

// ToolResultResponse is returned by a successful tool invocation.
type ToolResultResponse struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

// ErrorResponse is the body of every JSON error the gateway writes.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Issues []string `json:"issues,omitempty"`
}

func (s *Server) health() HealthResponse {
	return HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Clients:  s.clients.Count(),
		UptimeMs: s.Uptime().Milliseconds(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health())
}

// handlePage renders the assistant page with the current theme color.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.panel.Render(w); err != nil {
		s.log.Error().Err(err).Msg("page render failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "render failed", Code: "internal"})
	}
}

func (s *Server) handleToolList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ToolListResponse{Tools: s.panel.Tools().Definitions()})
}

// handleToolInvoke runs a panel tool with the request body as its arguments.
func (s *Server) handleToolInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxToolArgsBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error(), Code: "body_too_large"})
		return
	}

	result, err := s.panel.Tools().Invoke(r.Context(), name, args)
	var verr *panel.ValidationError
	switch {
	case err == nil:
		s.log.Info().Str("tool", name).RawJSON("args", compactJSON(args)).Msg("tool invoked")
		writeJSON(w, http.StatusOK, ToolResultResponse{Tool: name, Result: result})
	case errors.Is(err, panel.ErrUnknownTool):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "unknown_tool"})
	case errors.As(err, &verr):
		s.log.Debug().Str("tool", name).Strs("issues", verr.Issues).Msg("tool arguments rejected")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_arguments", Issues: verr.Issues})
	default:
		s.log.Warn().Err(err).Str("tool", name).Msg("tool failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "tool_failed"})
	}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemePayload{Color: s.panel.Theme().Color()})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// compactJSON returns args for logging, or an empty object when it is not
// valid JSON.
func compactJSON(args []byte) []byte {
	if len(args) == 0 || !json.Valid(args) {
		return []byte("{}")
	}
	return args
}

// RequestHandler processes an incoming RPC request frame from a page.
type RequestHandler func(ctx *RequestContext)

// RequestContext carries everything a handler needs.
type RequestContext struct {
	Client *Client
	Frame  Frame
	Server *Server
}

// Respond sends a success response.
func (rc *RequestContext) Respond(payload any) {
	if err := rc.Client.Respond(rc.Frame.ID, payload); err != nil {
		rc.Server.log.Warn().Err(err).Str("method", rc.Frame.Method).Msg("failed to send response")
	}
}

// RespondError sends an error response.
func (rc *RequestContext) RespondError(code, message string) {
	rc.Client.RespondError(rc.Frame.ID, ErrorShape{
		Code:    code,
		Message: message,
	})
}

// Params unmarshals the request params into the given target.
func (rc *RequestContext) Params(target any) error {
	if rc.Frame.Params == nil {
		return nil
	}
	return json.Unmarshal(rc.Frame.Params, target)
}
