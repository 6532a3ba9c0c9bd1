package condition

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates condition node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "condition"
}

func (f *Factory) Name() string {
	return "Condition"
}

func (f *Factory) Description() string {
	return "Evaluates configured comparisons and reports which branch to take"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type": "string",
				"enum": []string{"all", "any"},
			},
			"conditions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"field":    map[string]any{"type": "string"},
						"operator": map[string]any{
							"type": "string",
							"enum": []string{"equals", "not_equals", "contains", "greater_than", "less_than", "exists"},
						},
						"value": map[string]any{},
					},
					"required": []string{"field"},
				},
			},
		},
	}
}
