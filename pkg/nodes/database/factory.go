package database

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates database node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "database"
}

func (f *Factory) Name() string {
	return "Database"
}

func (f *Factory) Description() string {
	return "Runs a database operation against the configured table"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type": "string",
				"enum": []string{"select", "insert", "update", "delete"},
			},
			"table": map[string]any{
				"type":        "string",
				"description": "Target table name",
			},
		},
		"required": []string{"table"},
	}
}
