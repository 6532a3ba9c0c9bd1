// Package database provides the database operation node handler. Operations
// are simulated against the execution context; no connection is opened.
package database

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	Operation string `json:"operation"`
	Table     string `json:"table"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{Operation: "select"}

	if operation, ok := config["operation"].(string); ok && operation != "" {
		cfg.Operation = operation
	}

	table, ok := config["table"].(string)
	if !ok || table == "" {
		return nil, errors.New("missing required field 'table'")
	}

	cfg.Table = table

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	logger.Info("Database operation executed", "node_id", n.id, "operation", n.config.Operation, "table", n.config.Table)

	return &protocol.Result{
		Output: map[string]any{
			"operation":     n.config.Operation,
			"table":         n.config.Table,
			"rows_affected": len(input),
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "database operation executed", map[string]any{
				"operation": n.config.Operation,
				"table":     n.config.Table,
			}),
		},
	}, nil
}
