// Package loop provides the iteration node handler: it walks the item
// collection found in its input and reports one result per item.
package loop

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	ItemsField string `json:"items_field"`
	MaxItems   int    `json:"max_items"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{ItemsField: "items"}

	if field, ok := config["items_field"].(string); ok && field != "" {
		cfg.ItemsField = field
	}

	if maxItems, ok := config["max_items"].(float64); ok && maxItems > 0 {
		cfg.MaxItems = int(maxItems)
	} else if maxItems, ok := config["max_items"].(int); ok && maxItems > 0 {
		cfg.MaxItems = maxItems
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	items, _ := input[n.config.ItemsField].([]any)
	if n.config.MaxItems > 0 && len(items) > n.config.MaxItems {
		items = items[:n.config.MaxItems]
	}

	results := make([]any, 0, len(items))
	for i, item := range items {
		results = append(results, map[string]any{
			"index": i,
			"item":  item,
		})
	}

	logger.Info("Loop completed", "node_id", n.id, "iterations", len(items))

	return &protocol.Result{
		Output: map[string]any{
			"iterations": len(items),
			"results":    results,
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "loop completed", map[string]any{"iterations": len(items)}),
		},
	}, nil
}
