package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersistence(t *testing.T) *file.Persistence {
	t.Helper()

	p, err := file.NewPersistence(t.TempDir())
	require.NoError(t, err)

	return p
}

func TestWorkflowRoundTrip(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	ctx := context.Background()

	workflow := models.NewWorkflow("invoice-sync", "syncs invoices nightly")
	workflow.Nodes = append(workflow.Nodes, &models.WorkflowNode{
		ID: "t1", Type: models.NodeTypeTrigger, Label: "Nightly",
	})

	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	loaded, err := p.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.ID, loaded.ID)
	assert.Equal(t, "invoice-sync", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, models.NodeTypeTrigger, loaded.Nodes[0].Type)
}

func TestWorkflowByID_NotFound(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)

	_, err := p.WorkflowByID(context.Background(), "missing")

	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestDeleteWorkflow(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	ctx := context.Background()

	workflow := models.NewWorkflow("short-lived", "")
	require.NoError(t, p.SaveWorkflow(ctx, workflow))
	require.NoError(t, p.DeleteWorkflow(ctx, workflow.ID))

	_, err := p.WorkflowByID(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = p.DeleteWorkflow(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflows_SortedByCreation(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	ctx := context.Background()

	first := models.NewWorkflow("first", "")
	second := models.NewWorkflow("second", "")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	require.NoError(t, p.SaveWorkflow(ctx, second))
	require.NoError(t, p.SaveWorkflow(ctx, first))

	workflows, err := p.Workflows(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "first", workflows[0].Name)
	assert.Equal(t, "second", workflows[1].Name)
}

func TestExecutionRoundTrip(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	ctx := context.Background()

	execution := models.NewWorkflowExecution("wf-9", models.ExecutionContext{WorkflowID: "wf-9"})
	execution.Finish(models.ExecutionStatusCompleted)

	require.NoError(t, p.SaveExecution(ctx, execution))

	loaded, err := p.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
	assert.Equal(t, "wf-9", loaded.WorkflowID)

	all, err := p.Executions(ctx, "wf-9")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := p.Executions(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExecutionByID_NotFound(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)

	_, err := p.ExecutionByID(context.Background(), "missing")

	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)

	assert.NoError(t, p.HealthCheck(context.Background()))
}
