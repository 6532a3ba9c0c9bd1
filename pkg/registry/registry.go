// Package registry maps node types to their handler factories and validates
// node configuration against each factory's JSON schema.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/nodes/passthrough"
	"github.com/flowdeck/flowdeck/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// Registry holds the handler factories for all known node types.
type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.HandlerFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.HandlerFactory),
	}
}

// Register adds a factory, replacing any previous factory for the same type.
func (r *Registry) Register(factory protocol.HandlerFactory) {
	r.factories[factory.ID()] = factory
}

// Types returns the registered node type ids.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for id := range r.factories {
		types = append(types, id)
	}

	return types
}

// Factory looks up the factory for a node type.
func (r *Registry) Factory(nodeType string) (protocol.HandlerFactory, bool) {
	factory, ok := r.factories[nodeType]

	return factory, ok
}

// CreateHandler builds a handler for the node. Config is validated against
// the factory schema first. Unrecognized types fall back to a passthrough
// handler so unknown nodes never fail the workflow.
func (r *Registry) CreateHandler(ctx context.Context, node *models.WorkflowNode) (protocol.Handler, error) {
	factory, ok := r.factories[string(node.Type)]
	if !ok {
		r.logger.Warn("No factory registered for node type, using passthrough",
			"node_id", node.ID, "type", node.Type)

		return passthrough.NewNode(node.ID, string(node.Type)), nil
	}

	if err := r.validateConfig(factory, node.Config); err != nil {
		return nil, models.NewExecutionError(models.ErrCodeInvalidConfig, err.Error(), node.ID, false)
	}

	handler, err := factory.Create(ctx, node.ID, node.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create handler for node %s (%s): %w", node.ID, node.Type, err)
	}

	return handler, nil
}

func (r *Registry) validateConfig(factory protocol.HandlerFactory, config map[string]any) error {
	schema := factory.Schema()
	if len(schema) == 0 {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("invalid config for node type %s: %v", factory.ID(), result.Errors())
	}

	return nil
}
