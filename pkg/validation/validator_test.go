package validation_test

import (
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, nodeType models.NodeType, outputs int) *models.WorkflowNode {
	n := &models.WorkflowNode{ID: id, Type: nodeType, Label: id}
	for range outputs {
		n.Outputs = append(n.Outputs, models.Port{
			ID: id + ":out", NodeID: id, Name: "out", Direction: models.PortDirectionOutput,
		})
	}

	return n
}

func connect(source, target string) *models.Connection {
	return &models.Connection{
		ID:           models.NewID(),
		SourceNodeID: source,
		TargetNodeID: target,
	}
}

func codes(issues []validation.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Code)
	}

	return out
}

func TestValidate_ValidWorkflow(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Valid", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("t", models.NodeTypeTrigger, 1),
		node("a", models.NodeTypeAction, 1),
		node("b", models.NodeTypeAction, 0),
	}
	workflow.Connections = []*models.Connection{connect("t", "a"), connect("a", "b")}

	result := validation.Validate(workflow)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_NoTrigger(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("No Trigger", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("a", models.NodeTypeAction, 0),
	}

	result := validation.Validate(workflow)

	assert.False(t, result.Valid)
	assert.Contains(t, codes(result.Errors), validation.CodeNoTrigger)
}

func TestValidate_DanglingInputWarning(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Dangling", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("t", models.NodeTypeTrigger, 1),
		node("a", models.NodeTypeAction, 0),
		node("orphan", models.NodeTypeAction, 0),
	}
	workflow.Connections = []*models.Connection{connect("t", "a")}

	result := validation.Validate(workflow)

	// Warnings never block execution.
	assert.True(t, result.Valid)
	assert.Contains(t, codes(result.Warnings), validation.CodeNoIncoming)

	var warned []string
	for _, w := range result.Warnings {
		if w.Code == validation.CodeNoIncoming {
			warned = append(warned, w.NodeID)
		}
	}
	assert.Equal(t, []string{"orphan"}, warned)
}

func TestValidate_DanglingOutputWarning(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Dangling Out", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("t", models.NodeTypeTrigger, 1),
	}

	result := validation.Validate(workflow)

	assert.True(t, result.Valid)
	assert.Contains(t, codes(result.Warnings), validation.CodeNoOutgoing)
}

func TestValidate_Cycle(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Cycle", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("t", models.NodeTypeTrigger, 1),
		node("a", models.NodeTypeAction, 1),
		node("b", models.NodeTypeAction, 1),
	}
	workflow.Connections = []*models.Connection{
		connect("t", "a"),
		connect("a", "b"),
		connect("b", "a"),
	}

	result := validation.Validate(workflow)

	assert.False(t, result.Valid)
	assert.Contains(t, codes(result.Errors), validation.CodeCircularDependency)

	// Detection stops at the first cycle: exactly one circular-dependency error.
	count := 0
	for _, e := range result.Errors {
		if e.Code == validation.CodeCircularDependency {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidate_CycleAndMissingTriggerBothReported(t *testing.T) {
	t.Parallel()

	// A -> B -> A with no trigger: rules are checked independently, both
	// errors must be collected.
	workflow := models.NewWorkflow("Cycle No Trigger", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("a", models.NodeTypeAction, 1),
		node("b", models.NodeTypeAction, 1),
	}
	workflow.Connections = []*models.Connection{
		connect("a", "b"),
		connect("b", "a"),
	}

	result := validation.Validate(workflow)

	require.False(t, result.Valid)
	assert.Contains(t, codes(result.Errors), validation.CodeNoTrigger)
	assert.Contains(t, codes(result.Errors), validation.CodeCircularDependency)
}

func TestValidate_SelfLoop(t *testing.T) {
	t.Parallel()

	workflow := models.NewWorkflow("Self Loop", "")
	workflow.Nodes = []*models.WorkflowNode{
		node("t", models.NodeTypeTrigger, 1),
		node("a", models.NodeTypeAction, 1),
	}
	workflow.Connections = []*models.Connection{
		connect("t", "a"),
		connect("a", "a"),
	}

	result := validation.Validate(workflow)

	assert.False(t, result.Valid)
	assert.Contains(t, codes(result.Errors), validation.CodeCircularDependency)
}
