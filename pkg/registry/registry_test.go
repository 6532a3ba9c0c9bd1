package registry_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuiltinRegistry(t *testing.T) {
	t.Parallel()

	r := registry.NewBuiltinRegistry(slog.Default())

	for _, nodeType := range []string{
		"trigger", "action", "email", "http_request", "database",
		"condition", "loop", "delay", "transform", "script",
	} {
		_, ok := r.Factory(nodeType)
		assert.True(t, ok, "expected factory for %s", nodeType)
	}

	assert.Len(t, r.Types(), 10)
}

func TestRegistry_CreateHandler(t *testing.T) {
	t.Parallel()

	r := registry.NewBuiltinRegistry(slog.Default())

	handler, err := r.CreateHandler(context.Background(), &models.WorkflowNode{
		ID:     "n1",
		Type:   models.NodeTypeEmail,
		Label:  "Notify",
		Config: map[string]any{"to": "ops@example.com", "subject": "hi"},
	})

	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestRegistry_CreateHandler_InvalidConfig(t *testing.T) {
	t.Parallel()

	r := registry.NewBuiltinRegistry(slog.Default())

	// Email schema requires "to".
	_, err := r.CreateHandler(context.Background(), &models.WorkflowNode{
		ID:     "n1",
		Type:   models.NodeTypeEmail,
		Label:  "Notify",
		Config: map[string]any{"subject": "hi"},
	})

	require.Error(t, err)

	var execErr *models.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, models.ErrCodeInvalidConfig, execErr.Code)
	assert.False(t, execErr.Recoverable)
}

func TestRegistry_CreateHandler_UnknownTypeFallsBack(t *testing.T) {
	t.Parallel()

	r := registry.NewBuiltinRegistry(slog.Default())

	handler, err := r.CreateHandler(context.Background(), &models.WorkflowNode{
		ID:    "n1",
		Type:  "hologram",
		Label: "Future Node",
	})

	require.NoError(t, err)

	input := map[string]any{"key": "value"}
	result, err := handler.Execute(context.Background(), models.ExecutionContext{}, input, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, input, result.Output)

	require.NotEmpty(t, result.Logs)
	assert.Equal(t, models.LogLevelWarn, result.Logs[0].Level)
}
