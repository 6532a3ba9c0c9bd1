package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutionService(t *testing.T) (*services.ExecutionService, *services.WorkflowService) {
	t.Helper()

	p, err := file.NewPersistence(t.TempDir())
	require.NoError(t, err)

	reg := registry.NewBuiltinRegistry(slog.Default())

	return services.NewExecutionService(p, reg, nil, slog.Default()),
		services.NewWorkflowService(p, slog.Default())
}

func seedWorkflow(t *testing.T, svc *services.WorkflowService) *models.Workflow {
	t.Helper()

	ctx := context.Background()

	workflow, err := svc.Create(ctx, "notify-on-signup", "")
	require.NoError(t, err)

	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Signup"}))
	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "a1", Type: models.NodeTypeAction, Label: "Enrich"}))
	require.NoError(t, svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "t1", TargetNodeID: "a1"}))

	return workflow
}

func TestStart_PersistsExecution(t *testing.T) {
	t.Parallel()

	execSvc, wfSvc := newExecutionService(t)
	ctx := context.Background()

	workflow := seedWorkflow(t, wfSvc)

	execution, err := execSvc.Start(ctx, workflow.ID, map[string]any{"user": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)

	persisted, err := execSvc.Get(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, persisted.ID)

	list, err := execSvc.List(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCancel_InactiveExecution(t *testing.T) {
	t.Parallel()

	execSvc, _ := newExecutionService(t)

	err := execSvc.Cancel("missing")

	assert.ErrorIs(t, err, services.ErrExecutionNotActive)
}

func TestStartAsync_CancellableWhileRunning(t *testing.T) {
	t.Parallel()

	execSvc, wfSvc := newExecutionService(t)
	ctx := context.Background()

	workflow := seedWorkflow(t, wfSvc)

	// Slow the run down so it is still active when we cancel.
	require.NoError(t, wfSvc.AddNode(ctx, workflow.ID, &models.WorkflowNode{
		ID: "d1", Type: models.NodeTypeDelay, Label: "Wait",
		Config: map[string]any{"duration_ms": float64(500)},
	}))
	require.NoError(t, wfSvc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "a1", TargetNodeID: "d1"}))
	require.NoError(t, wfSvc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "a2", Type: models.NodeTypeAction, Label: "Notify"}))
	require.NoError(t, wfSvc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "d1", TargetNodeID: "a2"}))

	runner, err := execSvc.StartAsync(ctx, workflow.ID, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return runner.Execution() != nil
	}, 2*time.Second, 5*time.Millisecond)

	executionID := runner.Execution().ID
	require.NoError(t, execSvc.Cancel(executionID))

	require.Eventually(t, func() bool {
		execution := runner.Execution()

		return execution != nil && execution.Status.Terminal()
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, models.ExecutionStatusCancelled, runner.Execution().Status)

	// Once the run finished it is no longer controllable.
	require.Eventually(t, func() bool {
		return execSvc.Cancel(executionID) != nil
	}, 2*time.Second, 10*time.Millisecond)
}
