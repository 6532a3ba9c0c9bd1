// Package script provides the script node handler. Evaluation is simulated:
// the configured source is echoed with the input it would have received.
package script

import (
	"context"
	"errors"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	Source   string `json:"source"`
	Language string `json:"language"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{Language: "javascript"}

	source, ok := config["source"].(string)
	if !ok || source == "" {
		return nil, errors.New("missing required field 'source'")
	}

	cfg.Source = source

	if language, ok := config["language"].(string); ok && language != "" {
		cfg.Language = language
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, input map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	logger.Info("Script evaluated", "node_id", n.id, "language", n.config.Language)

	return &protocol.Result{
		Output: map[string]any{
			"evaluated": true,
			"language":  n.config.Language,
			"input":     input,
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "script evaluated", map[string]any{
				"language": n.config.Language,
			}),
		},
	}, nil
}
