package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/soyeahso/sidebar/internal/agui"
	"github.com/soyeahso/sidebar/internal/hooks"
)

// ErrUnknownTool is returned when invoking a tool that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// JSON types a Parameter may declare.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Parameter declares one named tool argument.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Tool is an agent-invocable action exposed by the panel.
type Tool interface {
	// Name returns the identifier the agent calls the tool by.
	Name() string

	// Description guides the agent on when and how to call the tool.
	Description() string

	// Parameters declares the argument schema.
	Parameters() []Parameter

	// Execute runs the tool. Args are raw JSON and have not necessarily been
	// validated; ToolRegistry.Invoke validates before calling Execute.
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// ValidationError reports arguments that do not match a tool's parameters.
type ValidationError struct {
	Tool   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Issues, "; "))
}

// ToolRegistry holds the panel's tools.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	hooks *hooks.Manager
}

// NewToolRegistry creates an empty registry. hm may be nil.
func NewToolRegistry(hm *hooks.Manager) *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool), hooks: hm}
}

// Register adds a tool, replacing any tool with the same name.
func (r *ToolRegistry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the AG-UI declarations of all tools, sorted by name.
func (r *ToolRegistry) Definitions() []agui.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]agui.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, agui.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  Schema(t.Parameters()),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Invoke validates args against the tool's parameters and runs it.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if err := ValidateArgs(name, t.Parameters(), args); err != nil {
		r.hooks.Emit(ctx, hooks.EventToolInvoked, map[string]any{"tool": name, "ok": false})
		return nil, err
	}

	result, err := t.Execute(ctx, args)
	r.hooks.Emit(ctx, hooks.EventToolInvoked, map[string]any{"tool": name, "ok": err == nil})
	return result, err
}

// ValidateArgs checks that args is a JSON object holding every required
// parameter with its declared type. Explicit nulls count as missing.
// Undeclared arguments are ignored.
func ValidateArgs(tool string, params []Parameter, args json.RawMessage) error {
	fields := map[string]json.RawMessage{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &fields); err != nil {
			return &ValidationError{Tool: tool, Issues: []string{"arguments must be a JSON object"}}
		}
	}

	var issues []string
	for _, p := range params {
		raw, present := fields[p.Name]
		if !present || string(raw) == "null" {
			if p.Required {
				issues = append(issues, fmt.Sprintf("%s is required", p.Name))
			}
			continue
		}
		if got := jsonType(raw); p.Type != "" && got != p.Type {
			issues = append(issues, fmt.Sprintf("%s must be a %s, got %s", p.Name, p.Type, got))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Tool: tool, Issues: issues}
	}
	return nil
}

func jsonType(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "empty"
	}
	switch s[0] {
	case '"':
		return TypeString
	case '{':
		return TypeObject
	case '[':
		return TypeArray
	case 't', 'f':
		return TypeBoolean
	case 'n':
		return "null"
	default:
		return TypeNumber
	}
}

// Schema renders parameters as a JSON Schema object.
func Schema(params []Parameter) json.RawMessage {
	type property struct {
		Type        string `json:"type,omitempty"`
		Description string `json:"description,omitempty"`
	}
	schema := struct {
		Type       string              `json:"type"`
		Properties map[string]property `json:"properties"`
		Required   []string            `json:"required,omitempty"`
	}{
		Type:       "object",
		Properties: make(map[string]property, len(params)),
	}
	for _, p := range params {
		schema.Properties[p.Name] = property{Type: p.Type, Description: p.Description}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	raw, _ := json.Marshal(schema)
	return raw
}
