// Package trigger provides the workflow entry-point node: it passes the
// trigger payload into the graph.
package trigger

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Node passes its input through, falling back to the execution context's
// trigger payload when the input is empty.
type Node struct {
	id string
}

// NewNode creates a trigger node handler.
func NewNode(id string, _ map[string]any) (*Node, error) {
	return &Node{id: id}, nil
}

func (n *Node) Execute(_ context.Context, execCtx models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	output := input
	if len(output) == 0 {
		output = execCtx.TriggerData
	}

	if output == nil {
		output = map[string]any{}
	}

	logger.Info("Trigger node fired", "node_id", n.id)

	return &protocol.Result{
		Output: output,
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "workflow triggered", map[string]any{"node_id": n.id}),
		},
	}, nil
}
