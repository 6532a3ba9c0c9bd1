package graph_test

import (
	"testing"

	"github.com/flowdeck/flowdeck/pkg/graph"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWorkflow() *models.Workflow {
	workflow := models.NewWorkflow("Graph Test", "")
	workflow.Nodes = []*models.WorkflowNode{
		{
			ID: "t", Type: models.NodeTypeTrigger, Label: "Trigger",
			Outputs: []models.Port{{ID: "t:out", NodeID: "t", Name: "out", Direction: models.PortDirectionOutput}},
		},
		{
			ID: "a", Type: models.NodeTypeAction, Label: "Action A",
			Inputs:  []models.Port{{ID: "a:in", NodeID: "a", Name: "in", Direction: models.PortDirectionInput}},
			Outputs: []models.Port{{ID: "a:out", NodeID: "a", Name: "out", Direction: models.PortDirectionOutput}},
		},
		{
			ID: "b", Type: models.NodeTypeAction, Label: "Action B",
			Inputs: []models.Port{{ID: "b:in", NodeID: "b", Name: "in", Direction: models.PortDirectionInput}},
		},
		{ID: "isolated", Type: models.NodeTypeAction, Label: "Isolated"},
	}
	workflow.Connections = []*models.Connection{
		{ID: "c1", SourceNodeID: "t", SourcePortID: "t:out", TargetNodeID: "a", TargetPortID: "a:in"},
		{ID: "c2", SourceNodeID: "a", SourcePortID: "a:out", TargetNodeID: "b", TargetPortID: "b:in"},
	}

	return workflow
}

func TestGraph_NodeByID(t *testing.T) {
	t.Parallel()

	g := graph.New(buildWorkflow())

	node, ok := g.NodeByID("a")
	require.True(t, ok)
	assert.Equal(t, "Action A", node.Label)

	_, ok = g.NodeByID("missing")
	assert.False(t, ok)
}

func TestGraph_IncomingOutgoing(t *testing.T) {
	t.Parallel()

	g := graph.New(buildWorkflow())

	assert.False(t, g.HasIncoming("t"))
	assert.True(t, g.HasOutgoing("t"))
	assert.True(t, g.HasIncoming("a"))
	assert.True(t, g.HasOutgoing("a"))
	assert.True(t, g.HasIncoming("b"))
	assert.False(t, g.HasOutgoing("b"))
	assert.False(t, g.HasIncoming("isolated"))
	assert.False(t, g.HasOutgoing("isolated"))

	incoming := g.Incoming("b")
	require.Len(t, incoming, 1)
	assert.Equal(t, "a", incoming[0].SourceNodeID)

	outgoing := g.Outgoing("t")
	require.Len(t, outgoing, 1)
	assert.Equal(t, "a", outgoing[0].TargetNodeID)
}

func TestGraph_Adjacency(t *testing.T) {
	t.Parallel()

	g := graph.New(buildWorkflow())

	adjacency := g.Adjacency()

	assert.Equal(t, []string{"a"}, adjacency["t"])
	assert.Equal(t, []string{"b"}, adjacency["a"])
	assert.Empty(t, adjacency["b"])
	assert.Contains(t, adjacency, "isolated")
}

func TestGraph_PortOwner(t *testing.T) {
	t.Parallel()

	g := graph.New(buildWorkflow())

	owner, ok := g.PortOwner("a:in")
	require.True(t, ok)
	assert.Equal(t, "a", owner.ID)

	owner, ok = g.PortOwner("t:out")
	require.True(t, ok)
	assert.Equal(t, "t", owner.ID)

	_, ok = g.PortOwner("nope")
	assert.False(t, ok)
}
