package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soyeahso/sidebar/internal/panel"
)

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	if s.bridge != nil {
		// Every method goes to the runtime, which answers 405 itself.
		endpoint := s.cfg.Bridge.Endpoint()
		mux.Handle(endpoint, s.bridge)
		mux.Handle(endpoint+"/", s.bridge)
	}

	if s.panel != nil {
		mux.HandleFunc("GET /{$}", s.handlePage)
		mux.Handle("GET "+panel.AssetsPath, s.panel.Assets())
		mux.HandleFunc("GET "+panel.ToolsPath, s.handleToolList)
		mux.HandleFunc("POST "+panel.ToolsPath+"/{name}", s.handleToolInvoke)
		mux.HandleFunc("GET "+panel.ThemePath, s.handleTheme)
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET "+panel.WebSocketPath, s.handleWebSocket)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

// registerRPCHandlers sets up the methods pages may call over the websocket.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("theme.get", s.rpcThemeGet)
	s.Handle("tools.list", s.rpcToolsList)
	s.Handle("tools.invoke", s.rpcToolsInvoke)
}

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(s.health())
}

func (s *Server) rpcThemeGet(rc *RequestContext) {
	if s.panel == nil {
		rc.RespondError("unavailable", "no panel configured")
		return
	}
	rc.Respond(ThemePayload{Color: s.panel.Theme().Color()})
}

func (s *Server) rpcToolsList(rc *RequestContext) {
	if s.panel == nil {
		rc.Respond(ToolListResponse{})
		return
	}
	rc.Respond(ToolListResponse{Tools: s.panel.Tools().Definitions()})
}

// ToolInvokeParams are the params of the tools.invoke method.
type ToolInvokeParams struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// rpcToolsInvoke runs a panel tool for a page, with the same checks as
// POST /panel/tools/{name}.
func (s *Server) rpcToolsInvoke(rc *RequestContext) {
	if s.panel == nil {
		rc.RespondError("unavailable", "no panel configured")
		return
	}

	var params ToolInvokeParams
	if err := rc.Params(&params); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if params.Name == "" {
		rc.RespondError("invalid_params", "name is required")
		return
	}

	result, err := s.panel.Tools().Invoke(context.Background(), params.Name, params.Args)
	var verr *panel.ValidationError
	switch {
	case err == nil:
		s.log.Info().Str("tool", params.Name).Str("connId", rc.Client.ConnID).Msg("tool invoked over websocket")
		rc.Respond(ToolResultResponse{Tool: params.Name, Result: result})
	case errors.Is(err, panel.ErrUnknownTool):
		rc.RespondError("unknown_tool", err.Error())
	case errors.As(err, &verr):
		rc.Client.RespondError(rc.Frame.ID, ErrorShape{
			Code:    "invalid_arguments",
			Message: err.Error(),
			Details: verr.Issues,
		})
	default:
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		rc.RespondError("tool_failed", err.Error())
	}
}
