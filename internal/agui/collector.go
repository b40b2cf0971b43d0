package agui

import "fmt"

// ToolCallCollector assembles tool calls from the TOOL_CALL_START, _ARGS and
// _END events of a stream. Calls are reported in the order they end.
type ToolCallCollector struct {
	pending map[string]*ToolCall
	done    []ToolCall
}

// NewToolCallCollector returns an empty collector.
func NewToolCallCollector() *ToolCallCollector {
	return &ToolCallCollector{pending: make(map[string]*ToolCall)}
}

// Observe feeds one event. It returns the completed call when ev ends one.
// Non tool-call events are ignored.
func (c *ToolCallCollector) Observe(ev Event) (*ToolCall, error) {
	switch ev.Type {
	case EventToolCallStart:
		if ev.ToolCallID == "" {
			return nil, fmt.Errorf("%s without toolCallId", ev.Type)
		}
		c.pending[ev.ToolCallID] = &ToolCall{
			ID:       ev.ToolCallID,
			Type:     "function",
			Function: FunctionCall{Name: ev.ToolCallName},
		}
	case EventToolCallArgs:
		tc, ok := c.pending[ev.ToolCallID]
		if !ok {
			return nil, fmt.Errorf("%s for unknown tool call %q", ev.Type, ev.ToolCallID)
		}
		tc.Function.Arguments += ev.Delta
	case EventToolCallEnd:
		tc, ok := c.pending[ev.ToolCallID]
		if !ok {
			return nil, fmt.Errorf("%s for unknown tool call %q", ev.Type, ev.ToolCallID)
		}
		delete(c.pending, ev.ToolCallID)
		if tc.Function.Arguments == "" {
			tc.Function.Arguments = "{}"
		}
		c.done = append(c.done, *tc)
		return tc, nil
	}
	return nil, nil
}

// Completed returns every tool call that has ended so far.
func (c *ToolCallCollector) Completed() []ToolCall {
	out := make([]ToolCall, len(c.done))
	copy(out, c.done)
	return out
}

// Pending reports how many started calls have not ended yet.
func (c *ToolCallCollector) Pending() int {
	return len(c.pending)
}
