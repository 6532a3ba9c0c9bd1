// Package passthrough provides the fallback handler for unrecognized node
// types: identity output plus a warning log. Unknown types never fail, to
// keep forward compatibility with node types this engine does not know yet.
package passthrough

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Node struct {
	id       string
	nodeType string
}

// NewNode creates a passthrough handler remembering the unrecognized type
// for the warning log.
func NewNode(id, nodeType string) *Node {
	return &Node{id: id, nodeType: nodeType}
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	if input == nil {
		input = map[string]any{}
	}

	logger.Warn("Unknown node type, passing input through", "node_id", n.id, "type", n.nodeType)

	return &protocol.Result{
		Output: input,
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelWarn, "unknown node type, passing through", map[string]any{
				"type": n.nodeType,
			}),
		},
	}, nil
}
