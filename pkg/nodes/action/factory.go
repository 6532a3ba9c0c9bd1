package action

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates generic action node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "action"
}

func (f *Factory) Name() string {
	return "Action"
}

func (f *Factory) Description() string {
	return "Generic named action; forwards its input annotated with the action that ran"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action_name": map[string]any{
				"type":        "string",
				"description": "Name of the action, used for logging and output annotation",
			},
		},
	}
}
