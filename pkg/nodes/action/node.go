// Package action provides the generic action node: a named unit of work that
// forwards its input annotated with the action that ran.
package action

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	ActionName string `json:"action_name"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{ActionName: "action"}
	if name, ok := config["action_name"].(string); ok && name != "" {
		cfg.ActionName = name
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	output := map[string]any{
		"action":       n.config.ActionName,
		"completed_at": time.Now().UTC().Format(time.RFC3339),
	}
	maps.Copy(output, input)

	logger.Info("Action executed", "node_id", n.id, "action", n.config.ActionName)

	return &protocol.Result{
		Output: output,
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "action executed", map[string]any{"action": n.config.ActionName}),
		},
	}, nil
}
