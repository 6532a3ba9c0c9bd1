// Package httprequest provides the HTTP request node handler. The request is
// simulated: the node models the latency and shape of a remote call without
// performing network I/O.
package httprequest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{Method: "GET"}

	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	cfg.URL = url

	if method, ok := config["method"].(string); ok && method != "" {
		cfg.Method = strings.ToUpper(method)
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(ctx context.Context, _ models.ExecutionContext, _ map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return nil, models.NewExecutionError(models.ErrCodeTimeout, ctx.Err().Error(), n.id, true)
	}

	logger.Info("HTTP request completed", "node_id", n.id, "method", n.config.Method, "url", n.config.URL)

	return &protocol.Result{
		Output: map[string]any{
			"status":   200,
			"url":      n.config.URL,
			"method":   n.config.Method,
			"response": map[string]any{"ok": true},
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "http request completed", map[string]any{
				"method": n.config.Method,
				"url":    n.config.URL,
			}),
		},
	}, nil
}
