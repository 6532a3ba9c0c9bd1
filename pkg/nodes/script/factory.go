package script

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates script node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "script"
}

func (f *Factory) Name() string {
	return "Script"
}

func (f *Factory) Description() string {
	return "Evaluates a user-provided script against the node input"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "Script source code",
			},
			"language": map[string]any{
				"type": "string",
				"enum": []string{"javascript", "lua"},
			},
		},
		"required": []string{"source"},
	}
}
