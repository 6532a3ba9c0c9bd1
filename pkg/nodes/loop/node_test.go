package loop_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/nodes/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_IteratesInputItems(t *testing.T) {
	t.Parallel()

	node, err := loop.NewNode("loop-1", map[string]any{})
	require.NoError(t, err)

	input := map[string]any{"items": []any{"a", "b", "c"}}
	result, err := node.Execute(context.Background(), models.ExecutionContext{}, input, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Output["iterations"])

	results, ok := result.Output["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 3)

	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0, first["index"])
	assert.Equal(t, "a", first["item"])
}

func TestNode_CustomItemsField(t *testing.T) {
	t.Parallel()

	node, err := loop.NewNode("loop-1", map[string]any{"items_field": "orders"})
	require.NoError(t, err)

	input := map[string]any{"orders": []any{1, 2}}
	result, err := node.Execute(context.Background(), models.ExecutionContext{}, input, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Output["iterations"])
}

func TestNode_MaxItemsCap(t *testing.T) {
	t.Parallel()

	node, err := loop.NewNode("loop-1", map[string]any{"max_items": 2})
	require.NoError(t, err)

	input := map[string]any{"items": []any{"a", "b", "c", "d"}}
	result, err := node.Execute(context.Background(), models.ExecutionContext{}, input, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Output["iterations"])
}

func TestNode_MissingItems(t *testing.T) {
	t.Parallel()

	node, err := loop.NewNode("loop-1", map[string]any{})
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), models.ExecutionContext{}, map[string]any{}, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Output["iterations"])
}
