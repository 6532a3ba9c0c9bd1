// Package delay provides the delay node handler: it suspends the execution
// for the configured duration before passing control downstream.
package delay

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	Duration time.Duration `json:"duration"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{Duration: time.Second}

	switch v := config["duration_ms"].(type) {
	case float64:
		cfg.Duration = time.Duration(v) * time.Millisecond
	case int:
		cfg.Duration = time.Duration(v) * time.Millisecond
	case int64:
		cfg.Duration = time.Duration(v) * time.Millisecond
	}

	if cfg.Duration < 0 {
		cfg.Duration = 0
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(ctx context.Context, _ models.ExecutionContext, _ map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	timer := time.NewTimer(n.config.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, models.NewExecutionError(models.ErrCodeTimeout, ctx.Err().Error(), n.id, false)
	}

	logger.Info("Delay elapsed", "node_id", n.id, "duration", n.config.Duration)

	return &protocol.Result{
		Output: map[string]any{
			"delayed":     true,
			"duration_ms": n.config.Duration.Milliseconds(),
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "delay elapsed", map[string]any{
				"duration_ms": n.config.Duration.Milliseconds(),
			}),
		},
	}, nil
}
