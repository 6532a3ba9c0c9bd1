// Package protocol defines the interfaces and contracts for pluggable node
// handlers and for the collaborators observing executions.
package protocol

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// Result is what a handler produces for a single node dispatch: the node's
// output payload and the ordered log entries describing what happened.
type Result struct {
	Output map[string]any
	Logs   []models.ExecutionLog
}

// Handler executes a single node. Implementations may block on I/O and must
// honor ctx cancellation at their suspension points.
type Handler interface {
	Execute(ctx context.Context, execCtx models.ExecutionContext, input map[string]any, logger *slog.Logger) (*Result, error)
}

// HandlerFactory creates handler instances for one node type and provides
// metadata about it.
type HandlerFactory interface {
	// Create builds a handler for a concrete node from its config.
	Create(ctx context.Context, nodeID string, config map[string]any) (Handler, error)

	// ID returns the node type this factory serves.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node type does.
	Description() string

	// Schema returns the JSON schema for configuring this node type.
	Schema() map[string]any
}
