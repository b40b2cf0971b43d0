package runtime

import (
	"context"

	"github.com/soyeahso/sidebar/internal/agui"
)

// ServiceAdapter is the runtime's own inference backend. An endpoint will
// not start without one, even when every run goes to a remote agent.
type ServiceAdapter interface {
	Name() string
	Process(ctx context.Context, req AdapterRequest) (AdapterResponse, error)
}

// AdapterRequest is what a runtime hands its service adapter.
type AdapterRequest struct {
	ThreadID string
	Messages []agui.Message
}

// AdapterResponse is the adapter's answer.
type AdapterResponse struct {
	ThreadID string
}

// EmptyAdapter performs no inference. It satisfies the runtime's adapter
// requirement when every request is served by a remote agent.
type EmptyAdapter struct{}

// Name implements ServiceAdapter.
func (EmptyAdapter) Name() string { return "empty" }

// Process implements ServiceAdapter and echoes the thread id.
func (EmptyAdapter) Process(_ context.Context, req AdapterRequest) (AdapterResponse, error) {
	return AdapterResponse{ThreadID: req.ThreadID}, nil
}
