package loop

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates loop node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "loop"
}

func (f *Factory) Name() string {
	return "Loop"
}

func (f *Factory) Description() string {
	return "Iterates over the item collection in its input"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items_field": map[string]any{
				"type":        "string",
				"description": "Input field holding the collection to iterate",
			},
			"max_items": map[string]any{
				"type":        "integer",
				"description": "Optional cap on iterations",
				"minimum":     1,
			},
		},
	}
}
