package delay_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/nodes/delay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_DelaysForConfiguredDuration(t *testing.T) {
	t.Parallel()

	node, err := delay.NewNode("delay-1", map[string]any{"duration_ms": float64(20)})
	require.NoError(t, err)

	start := time.Now()
	result, err := node.Execute(context.Background(), models.ExecutionContext{}, nil, slog.Default())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Equal(t, true, result.Output["delayed"])
	assert.Equal(t, int64(20), result.Output["duration_ms"])
	require.NotEmpty(t, result.Logs)
	assert.Equal(t, models.LogLevelInfo, result.Logs[0].Level)
}

func TestNode_CancelledContext(t *testing.T) {
	t.Parallel()

	node, err := delay.NewNode("delay-1", map[string]any{"duration_ms": float64(5000)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = node.Execute(ctx, models.ExecutionContext{}, nil, slog.Default())

	var execErr *models.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, models.ErrCodeTimeout, execErr.Code)
}
