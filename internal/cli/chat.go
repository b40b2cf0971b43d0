package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/panel"
	"github.com/soyeahso/sidebar/internal/version"
	"github.com/spf13/cobra"
)

// maxToolRounds bounds how many follow-up runs one message may trigger.
const maxToolRounds = 5

func newChatCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message through a running bridge and print the reply",
		Long: "chat talks to a running `sidebar serve` the way the page's sidebar does:\n" +
			"it posts an agent run to the bridge, prints the streamed reply and runs\n" +
			"any panel tool the agent calls before sending a follow-up run.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if server == "" {
				server = serverURL(cfg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := newChatClient(server, cfg.Bridge.Endpoint(), cmd.OutOrStdout())
			if err := c.loadTools(ctx); err != nil {
				return fmt.Errorf("fetching panel tools from %s: %w", server, err)
			}
			return c.send(ctx, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL of the running server (default from config)")
	return cmd
}

type chatStyles struct {
	agent lipgloss.Style
	tool  lipgloss.Style
	err   lipgloss.Style
}

func defaultChatStyles() chatStyles {
	return chatStyles{
		agent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366f1")),
		tool:  lipgloss.NewStyle().Faint(true),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
	}
}

// chatClient holds one conversation thread against the bridge.
type chatClient struct {
	baseURL  string
	endpoint string
	http     *http.Client
	out      io.Writer
	styles   chatStyles

	threadID string
	messages []agui.Message
	tools    []agui.Tool
}

func newChatClient(baseURL, endpoint string, out io.Writer) *chatClient {
	return &chatClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		endpoint: endpoint,
		http:     &http.Client{},
		out:      out,
		styles:   defaultChatStyles(),
		threadID: uuid.NewString(),
	}
}

// loadTools fetches the panel's tool declarations so the agent can call them.
func (c *chatClient) loadTools(ctx context.Context) error {
	var list struct {
		Tools []agui.Tool `json:"tools"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+panel.ToolsPath, &list); err != nil {
		return err
	}
	c.tools = list.Tools
	return nil
}

// send adds a user message and runs the agent until it stops calling tools.
func (c *chatClient) send(ctx context.Context, text string) error {
	c.messages = append(c.messages, agui.Message{
		ID:      uuid.NewString(),
		Role:    agui.RoleUser,
		Content: text,
	})

	for round := 0; round < maxToolRounds; round++ {
		calls, err := c.run(ctx)
		if err != nil {
			return err
		}
		if len(calls) == 0 {
			return nil
		}

		c.messages = append(c.messages, agui.Message{
			ID:        uuid.NewString(),
			Role:      agui.RoleAssistant,
			ToolCalls: calls,
		})
		for _, call := range calls {
			content := c.invokeTool(ctx, call)
			c.messages = append(c.messages, agui.Message{
				ID:         uuid.NewString(),
				Role:       agui.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	log.Warn().Int("rounds", maxToolRounds).Msg("agent kept calling tools; stopping")
	return nil
}

// run posts one agent run and prints its text. It returns the tool calls
// the agent completed during the run.
func (c *chatClient) run(ctx context.Context) ([]agui.ToolCall, error) {
	input := agui.RunAgentInput{
		ThreadID:       c.threadID,
		RunID:          uuid.NewString(),
		State:          map[string]any{},
		Messages:       c.messages,
		Tools:          c.tools,
		Context:        []agui.ContextItem{},
		ForwardedProps: json.RawMessage(`{}`),
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", agui.ContentType)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge: %w", statusError(resp))
	}

	collector := agui.NewToolCallCollector()
	texts := map[string]*strings.Builder{}
	reader := agui.NewEventReader(resp.Body)
	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading agent stream: %w", err)
		}

		switch ev.Type {
		case agui.EventTextMessageStart:
			texts[ev.MessageID] = &strings.Builder{}
			fmt.Fprint(c.out, c.styles.agent.Render("agent")+" ")
		case agui.EventTextMessageContent:
			if b, ok := texts[ev.MessageID]; ok {
				b.WriteString(ev.Delta)
			}
			fmt.Fprint(c.out, ev.Delta)
		case agui.EventTextMessageEnd:
			fmt.Fprintln(c.out)
			if b, ok := texts[ev.MessageID]; ok {
				c.messages = append(c.messages, agui.Message{
					ID:      ev.MessageID,
					Role:    agui.RoleAssistant,
					Content: b.String(),
				})
				delete(texts, ev.MessageID)
			}
		case agui.EventRunError:
			return nil, fmt.Errorf("agent run failed: %s", ev.Message)
		}

		if _, err := collector.Observe(ev); err != nil {
			log.Warn().Err(err).Msg("ignoring malformed tool call event")
		}
	}

	return collector.Completed(), nil
}

// invokeTool runs a tool call on the server and returns the content of the
// tool message reported back to the agent. Failures are reported to the
// agent, not to the user.
func (c *chatClient) invokeTool(ctx context.Context, call agui.ToolCall) string {
	name := call.Function.Name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+panel.ToolsPath+"/"+url.PathEscape(name),
		strings.NewReader(call.Function.Arguments))
	if err != nil {
		return errorContent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintln(c.out, c.styles.err.Render("tool "+name+" failed: "+err.Error()))
		return errorContent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		fmt.Fprintln(c.out, c.styles.err.Render("tool "+name+" rejected: "+err.Error()))
		return errorContent(err)
	}

	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return errorContent(err)
	}

	line := c.styles.tool.Render("tool " + name + " " + string(out.Result))
	if name == panel.SetThemeColorName {
		var r panel.SetThemeColorResult
		if json.Unmarshal(out.Result, &r) == nil && r.ThemeColor != "" {
			line += " " + swatch(r.ThemeColor)
		}
	}
	fmt.Fprintln(c.out, line)
	return string(out.Result)
}

func errorContent(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

// swatch renders a small block in the given color.
func swatch(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("    ")
}
