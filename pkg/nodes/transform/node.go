// Package transform provides the data transformation node handler, rendering
// a Go template expression over the execution context.
package transform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
	"github.com/flowdeck/flowdeck/pkg/template"
)

type Node struct {
	id         string
	expression string
}

func NewNode(id string, config map[string]any) (*Node, error) {
	expression, ok := config["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	return &Node{id: id, expression: expression}, nil
}

func (n *Node) Execute(_ context.Context, execCtx models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	rendered, err := template.RenderWithContext(n.expression, &execCtx, input)
	if err != nil {
		return nil, models.NewExecutionError(models.ErrCodeInvalidConfig, err.Error(), n.id, false)
	}

	output, ok := rendered.(map[string]any)
	if !ok {
		output = map[string]any{"result": rendered}
	}

	logger.Info("Transform applied", "node_id", n.id)

	return &protocol.Result{
		Output: output,
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "transform applied", nil),
		},
	}, nil
}
