package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Delay(t *testing.T) {
	t.Parallel()

	policy := models.RetryPolicy{
		MaxRetries:        5,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{"first attempt", 0, 100 * time.Millisecond},
		{"second attempt", 1, 200 * time.Millisecond},
		{"third attempt", 2, 400 * time.Millisecond},
		{"fourth attempt", 3, 800 * time.Millisecond},
		{"capped at max delay", 4, time.Second},
		{"stays at cap", 10, time.Second},
		{"negative attempt clamps to zero", -1, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, policy.Delay(tt.attempt))
		})
	}
}

func TestRetryPolicy_Delay_Monotonic(t *testing.T) {
	t.Parallel()

	policy := models.DefaultRetryPolicy()

	previous := time.Duration(0)
	for attempt := range 10 {
		delay := policy.Delay(attempt)
		assert.GreaterOrEqual(t, delay, previous, "delay must be non-decreasing at attempt %d", attempt)
		assert.LessOrEqual(t, delay, policy.MaxDelay)
		previous = delay
	}
}

func TestRetryPolicy_Delay_MultiplierBelowOne(t *testing.T) {
	t.Parallel()

	policy := models.RetryPolicy{
		InitialDelay:      50 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 0.5,
	}

	// Multiplier below 1 is clamped, delays never shrink.
	assert.Equal(t, 50*time.Millisecond, policy.Delay(0))
	assert.Equal(t, 50*time.Millisecond, policy.Delay(3))
}

func TestRetryPolicy_IsRetryable(t *testing.T) {
	t.Parallel()

	policy := models.DefaultRetryPolicy()

	assert.True(t, policy.IsRetryable(models.ErrCodeTimeout))
	assert.True(t, policy.IsRetryable(models.ErrCodeNetworkError))
	assert.False(t, policy.IsRetryable(models.ErrCodeNodeNotFound))
	assert.False(t, policy.IsRetryable("SOMETHING_ELSE"))
}

func TestExecutionError_Error(t *testing.T) {
	t.Parallel()

	err := models.NewExecutionError(models.ErrCodeTimeout, "upstream timed out", "node-1", true)

	assert.Contains(t, err.Error(), "TIMEOUT")
	assert.Contains(t, err.Error(), "node-1")
	assert.True(t, err.Recoverable)
	assert.False(t, err.Timestamp.IsZero())
}

func TestWrapExecutionError(t *testing.T) {
	t.Parallel()

	t.Run("plain error becomes non-recoverable", func(t *testing.T) {
		t.Parallel()

		wrapped := models.WrapExecutionError(errors.New("boom"), "node-2")

		assert.Equal(t, models.ErrCodeExecutionFailed, wrapped.Code)
		assert.Equal(t, "node-2", wrapped.NodeID)
		assert.False(t, wrapped.Recoverable)
	})

	t.Run("execution error passes through", func(t *testing.T) {
		t.Parallel()

		original := models.NewExecutionError(models.ErrCodeNetworkError, "conn refused", "", true)
		wrapped := models.WrapExecutionError(original, "node-3")

		assert.Same(t, original, wrapped)
		assert.Equal(t, "node-3", wrapped.NodeID)
		assert.True(t, wrapped.Recoverable)
	})
}

func TestWorkflow_Clone(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Order Pipeline", "processes incoming orders")
	node := &models.WorkflowNode{
		ID:     "n1",
		Type:   models.NodeTypeTrigger,
		Label:  "Start",
		Config: map[string]any{"event": "order.created"},
		Outputs: []models.Port{
			{ID: "n1:out", NodeID: "n1", Name: "out", Direction: models.PortDirectionOutput},
		},
	}
	workflow.Nodes = append(workflow.Nodes, node)
	workflow.Connections = append(workflow.Connections, &models.Connection{
		ID: "c1", SourceNodeID: "n1", TargetNodeID: "n2",
	})
	workflow.Variables = append(workflow.Variables, models.Variable{Name: "region", Value: "eu"})

	clone := workflow.Clone()
	require.Len(t, clone.Nodes, 1)

	// Mutating the clone must not leak into the original.
	clone.Nodes[0].Config["event"] = "order.deleted"
	clone.Connections[0].TargetNodeID = "n9"
	clone.Variables[0].Value = "us"

	assert.Equal(t, "order.created", workflow.Nodes[0].Config["event"])
	assert.Equal(t, "n2", workflow.Connections[0].TargetNodeID)
	assert.Equal(t, "eu", workflow.Variables[0].Value)
}

func TestWorkflow_Touch(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Touch Test", "")
	before := workflow.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	workflow.Touch()

	assert.True(t, workflow.UpdatedAt.After(before))
}

func TestWorkflowExecution_Clone(t *testing.T) {
	t.Parallel()

	execution := models.NewWorkflowExecution("wf-1", models.ExecutionContext{
		TriggerData: map[string]any{"order_id": "o-1"},
		NodeResults: map[string]map[string]any{"n1": {"ok": true}},
	})

	nodeExecution := models.NewNodeExecution("n1", map[string]any{"order_id": "o-1"})
	nodeExecution.Output = map[string]any{"ok": true}
	nodeExecution.AppendLog(models.NewExecutionLog(models.LogLevelInfo, "done", map[string]any{"n": 1}))
	nodeExecution.Finish(models.NodeExecutionStatusCompleted)
	execution.NodeExecutions = append(execution.NodeExecutions, nodeExecution)

	clone := execution.Clone()
	require.NotSame(t, execution, clone)
	require.Len(t, clone.NodeExecutions, 1)

	// Mutating the clone must not leak into the original.
	clone.Status = models.ExecutionStatusFailed
	clone.NodeExecutions[0].Output["ok"] = false
	clone.NodeExecutions[0].Logs[0].Data["n"] = 2
	clone.Context.NodeResults["n1"]["ok"] = false
	clone.Context.TriggerData["order_id"] = "o-9"

	assert.Equal(t, models.ExecutionStatusRunning, execution.Status)
	assert.Equal(t, true, execution.NodeExecutions[0].Output["ok"])
	assert.Equal(t, 1, execution.NodeExecutions[0].Logs[0].Data["n"])
	assert.Equal(t, true, execution.Context.NodeResults["n1"]["ok"])
	assert.Equal(t, "o-1", execution.Context.TriggerData["order_id"])
}

func TestWorkflowExecution_Finish(t *testing.T) {
	t.Parallel()

	execution := models.NewWorkflowExecution("wf-1", models.ExecutionContext{})
	require.Equal(t, models.ExecutionStatusRunning, execution.Status)

	execution.Finish(models.ExecutionStatusCompleted)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	require.NotNil(t, execution.CompletedAt)
	assert.GreaterOrEqual(t, execution.Duration, time.Duration(0))
	assert.True(t, execution.Status.Terminal())
}
