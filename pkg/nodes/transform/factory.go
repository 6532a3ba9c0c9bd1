package transform

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates transform node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "transform"
}

func (f *Factory) Name() string {
	return "Transform"
}

func (f *Factory) Description() string {
	return "Transforms data using Go templates with access to the execution context"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Go template expression rendered against the execution context",
				"examples": []string{
					`{"region": "{{.variables.region}}", "status": "active"}`,
					`{{len .trigger_data.items}}`,
				},
			},
		},
		"required": []string{"expression"},
	}
}
