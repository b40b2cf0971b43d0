package agui

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates events in an agent's response stream.
type EventType string

const (
	EventRunStarted         EventType = "RUN_STARTED"
	EventRunFinished        EventType = "RUN_FINISHED"
	EventRunError           EventType = "RUN_ERROR"
	EventStepStarted        EventType = "STEP_STARTED"
	EventStepFinished       EventType = "STEP_FINISHED"
	EventTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventToolCallStart      EventType = "TOOL_CALL_START"
	EventToolCallArgs       EventType = "TOOL_CALL_ARGS"
	EventToolCallEnd        EventType = "TOOL_CALL_END"
	EventToolCallResult     EventType = "TOOL_CALL_RESULT"
	EventStateSnapshot      EventType = "STATE_SNAPSHOT"
	EventStateDelta         EventType = "STATE_DELTA"
	EventMessagesSnapshot   EventType = "MESSAGES_SNAPSHOT"
	EventRaw                EventType = "RAW"
	EventCustom             EventType = "CUSTOM"
)

// Event is the flattened envelope of every AG-UI event. Only the fields
// belonging to Type are populated.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp,omitempty"`

	// RUN_*
	ThreadID string          `json:"threadId,omitempty"`
	RunID    string          `json:"runId,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Message  string          `json:"message,omitempty"` // RUN_ERROR
	Code     string          `json:"code,omitempty"`    // RUN_ERROR

	// STEP_*
	StepName string `json:"stepName,omitempty"`

	// TEXT_MESSAGE_*
	MessageID string `json:"messageId,omitempty"`
	Role      string `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"` // also TOOL_CALL_ARGS

	// TOOL_CALL_*
	ToolCallID      string `json:"toolCallId,omitempty"`
	ToolCallName    string `json:"toolCallName,omitempty"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Content         string `json:"content,omitempty"` // TOOL_CALL_RESULT

	// STATE_* / MESSAGES_SNAPSHOT
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
	Patch    json.RawMessage `json:"-"` // STATE_DELTA, sent as "delta"
	Messages []Message       `json:"messages,omitempty"`

	// CUSTOM / RAW
	Name  string          `json:"name,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Event json.RawMessage `json:"event,omitempty"`
}

// ParseEvent decodes one JSON event and checks that it carries a type.
func ParseEvent(data []byte) (Event, error) {
	var head struct {
		Type      EventType       `json:"type"`
		Timestamp int64           `json:"timestamp"`
		Delta     json.RawMessage `json:"delta"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if head.Type == EventStateDelta {
		return Event{Type: head.Type, Timestamp: head.Timestamp, Patch: head.Delta}, nil
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("event without type: %s", truncate(string(data), 80))
	}
	return ev, nil
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Type == EventRunFinished || e.Type == EventRunError
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
