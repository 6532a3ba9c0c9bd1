package services_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkflowService(t *testing.T) (*services.WorkflowService, *file.Persistence) {
	t.Helper()

	p, err := file.NewPersistence(t.TempDir())
	require.NoError(t, err)

	return services.NewWorkflowService(p, slog.Default()), p
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "routes new leads")
	require.NoError(t, err)
	require.NotEmpty(t, workflow.ID)

	loaded, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead-routing", loaded.Name)
	assert.Equal(t, models.ErrorHandlingStop, loaded.Settings.ErrorHandling)
}

func TestCreate_RejectsShortName(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)

	_, err := svc.Create(context.Background(), "ab", "")

	assert.Error(t, err)
}

func TestAddNode(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	node := &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Webhook"}
	require.NoError(t, svc.AddNode(ctx, workflow.ID, node))

	err = svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeAction, Label: "Dup"})
	assert.ErrorIs(t, err, services.ErrNodeExists)

	loaded, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 1)
	assert.True(t, loaded.UpdatedAt.After(workflow.CreatedAt) || loaded.UpdatedAt.Equal(workflow.CreatedAt))
}

func TestRemoveNode_CascadesConnections(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Webhook"}))
	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "a1", Type: models.NodeTypeAction, Label: "Score"}))
	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "a2", Type: models.NodeTypeAction, Label: "Assign"}))

	require.NoError(t, svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "t1", TargetNodeID: "a1"}))
	require.NoError(t, svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "a1", TargetNodeID: "a2"}))

	require.NoError(t, svc.RemoveNode(ctx, workflow.ID, "a1"))

	loaded, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Nodes, 2)
	assert.Empty(t, loaded.Connections)
}

func TestAddConnection_RejectsDanglingEndpoints(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Webhook"}))

	err = svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "t1", TargetNodeID: "nope"})
	assert.ErrorIs(t, err, services.ErrDanglingConnection)

	err = svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "nope", TargetNodeID: "t1"})
	assert.ErrorIs(t, err, services.ErrDanglingConnection)
}

func TestUpdateNode_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	err = svc.UpdateNode(ctx, workflow.ID, &models.WorkflowNode{ID: "ghost", Type: models.NodeTypeAction, Label: "Ghost"})
	assert.ErrorIs(t, err, persistence.ErrNodeNotFound)
}

func TestSetVariable_UpsertsByName(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetVariable(ctx, workflow.ID, models.Variable{Name: "region", Value: "emea"}))
	require.NoError(t, svc.SetVariable(ctx, workflow.ID, models.Variable{Name: "region", Value: "apac"}))

	loaded, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Variables, 1)
	assert.Equal(t, "apac", loaded.Variables[0].Value)
}

func TestRemoveVariable(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetVariable(ctx, workflow.ID, models.Variable{Name: "region", Value: "emea"}))
	require.NoError(t, svc.RemoveVariable(ctx, workflow.ID, "region"))

	loaded, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Variables)

	err = svc.RemoveVariable(ctx, workflow.ID, "region")
	assert.ErrorIs(t, err, services.ErrVariableNotFound)
}

func TestClone(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "routes new leads")
	require.NoError(t, err)

	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Webhook"}))
	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "a1", Type: models.NodeTypeAction, Label: "Score"}))
	require.NoError(t, svc.AddConnection(ctx, workflow.ID, &models.Connection{SourceNodeID: "t1", TargetNodeID: "a1"}))

	clone, err := svc.Clone(ctx, workflow.ID)
	require.NoError(t, err)
	assert.NotEqual(t, workflow.ID, clone.ID)
	assert.Equal(t, "lead-routing (copy)", clone.Name)
	assert.Len(t, clone.Nodes, 2)
	assert.Len(t, clone.Connections, 1)

	// Editing the copy must not touch the source graph.
	require.NoError(t, svc.RemoveNode(ctx, clone.ID, "a1"))

	source, err := svc.Get(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Len(t, source.Nodes, 2)
	assert.Len(t, source.Connections, 1)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "lead-routing", "")
	require.NoError(t, err)

	result, err := svc.Validate(ctx, workflow.ID)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	require.NoError(t, svc.AddNode(ctx, workflow.ID, &models.WorkflowNode{ID: "t1", Type: models.NodeTypeTrigger, Label: "Webhook"}))

	result, err = svc.Validate(ctx, workflow.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc, _ := newWorkflowService(t)
	ctx := context.Background()

	workflow, err := svc.Create(ctx, "short-lived", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, workflow.ID))

	_, err = svc.Get(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}
