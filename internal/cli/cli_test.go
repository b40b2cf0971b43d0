package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/logging"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SIDEBAR_HOME", t.TempDir())
	cfgFile, logLevel = "", ""

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--log-level", "silent"}, args...))
	err := root.Execute()
	return out.String(), err
}

// stubAgent answers the first run of a thread with a set_theme_color call
// and the follow-up run (which carries the tool result) with text.
type stubAgent struct {
	args string // raw tool call arguments

	mu   sync.Mutex
	runs []agui.RunAgentInput
}

func (a *stubAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.mu.Lock()
	a.runs = append(a.runs, in)
	a.mu.Unlock()

	ew, err := agui.NewEventWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	events := []agui.Event{{Type: agui.EventRunStarted, ThreadID: in.ThreadID, RunID: in.RunID}}
	last := in.Messages[len(in.Messages)-1]
	if last.Role == agui.RoleTool {
		events = append(events,
			agui.Event{Type: agui.EventTextMessageStart, MessageID: "m1", Role: agui.RoleAssistant},
			agui.Event{Type: agui.EventTextMessageContent, MessageID: "m1", Delta: "Done, "},
			agui.Event{Type: agui.EventTextMessageContent, MessageID: "m1", Delta: "the page is red."},
			agui.Event{Type: agui.EventTextMessageEnd, MessageID: "m1"},
		)
	} else {
		events = append(events,
			agui.Event{Type: agui.EventToolCallStart, ToolCallID: "call-1", ToolCallName: "set_theme_color"},
			agui.Event{Type: agui.EventToolCallArgs, ToolCallID: "call-1", Delta: a.args},
			agui.Event{Type: agui.EventToolCallEnd, ToolCallID: "call-1"},
		)
	}
	events = append(events, agui.Event{Type: agui.EventRunFinished, ThreadID: in.ThreadID, RunID: in.RunID})

	for _, ev := range events {
		if err := ew.Write(ev); err != nil {
			return
		}
	}
}

func (a *stubAgent) Runs() []agui.RunAgentInput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]agui.RunAgentInput(nil), a.runs...)
}

// startStack runs a full server (panel, bridge, gateway) in front of agent
// and returns its base URL.
func startStack(t *testing.T, agent http.Handler) string {
	t.Helper()
	log = logging.New(nil, "silent")

	agentSrv := httptest.NewServer(agent)
	t.Cleanup(agentSrv.Close)

	cfg := config.Defaults()
	cfg.Bridge.Agent.URL = agentSrv.URL + "/"

	srv, err := buildServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}
