package trigger

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates trigger node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "trigger"
}

func (f *Factory) Name() string {
	return "Trigger"
}

func (f *Factory) Description() string {
	return "Entry point of a workflow; forwards the trigger payload into the graph"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
