package delay

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates delay node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "delay"
}

func (f *Factory) Name() string {
	return "Delay"
}

func (f *Factory) Description() string {
	return "Suspends the execution for the configured duration"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration_ms": map[string]any{
				"type":        "integer",
				"description": "Delay in milliseconds",
				"minimum":     0,
			},
		},
	}
}
