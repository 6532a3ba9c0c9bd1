package email

import (
	"context"

	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// Factory creates email node handlers.
type Factory struct{}

func NewFactory() protocol.HandlerFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, config map[string]any) (protocol.Handler, error) {
	return NewNode(nodeID, config)
}

func (f *Factory) ID() string {
	return "email"
}

func (f *Factory) Name() string {
	return "Email"
}

func (f *Factory) Description() string {
	return "Sends an email to the configured recipient"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Message subject",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Message body",
			},
		},
		"required": []string{"to"},
	}
}
