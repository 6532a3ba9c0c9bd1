package scheduler_test

import (
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ids ...string) []*models.WorkflowNode {
	out := make([]*models.WorkflowNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.WorkflowNode{ID: id, Type: models.NodeTypeAction, Label: id})
	}

	return out
}

func connections(edges ...[2]string) []*models.Connection {
	out := make([]*models.Connection, 0, len(edges))
	for _, edge := range edges {
		out = append(out, &models.Connection{
			ID:           models.NewID(),
			SourceNodeID: edge[0],
			TargetNodeID: edge[1],
		})
	}

	return out
}

// index returns the position of id in order, failing the test if absent.
func index(t *testing.T, order []string, id string) int {
	t.Helper()

	for i, v := range order {
		if v == id {
			return i
		}
	}

	t.Fatalf("node %s not found in order %v", id, order)

	return -1
}

func TestOrder_Linear(t *testing.T) {
	t.Parallel()

	order, err := scheduler.Order(
		nodes("t", "a", "b"),
		connections([2]string{"t", "a"}, [2]string{"a", "b"}),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"t", "a", "b"}, order)
}

func TestOrder_RespectsAllEdges(t *testing.T) {
	t.Parallel()

	// Diamond: t -> a, t -> b, a -> c, b -> c.
	conns := connections(
		[2]string{"t", "a"},
		[2]string{"t", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "c"},
	)

	order, err := scheduler.Order(nodes("t", "a", "b", "c"), conns)
	require.NoError(t, err)
	require.Len(t, order, 4)

	for _, conn := range conns {
		assert.Less(t,
			index(t, order, conn.SourceNodeID),
			index(t, order, conn.TargetNodeID),
			"edge %s->%s violated in %v", conn.SourceNodeID, conn.TargetNodeID, order)
	}
}

func TestOrder_IsolatedNodeAppearsOnce(t *testing.T) {
	t.Parallel()

	order, err := scheduler.Order(
		nodes("island", "t", "a"),
		connections([2]string{"t", "a"}),
	)

	require.NoError(t, err)
	require.Len(t, order, 3)

	seen := map[string]int{}
	for _, id := range order {
		seen[id]++
	}
	assert.Equal(t, 1, seen["island"])
}

func TestOrder_Deterministic(t *testing.T) {
	t.Parallel()

	ns := nodes("t", "a", "b", "c", "d")
	conns := connections(
		[2]string{"t", "a"},
		[2]string{"t", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "c"},
		[2]string{"c", "d"},
	)

	first, err := scheduler.Order(ns, conns)
	require.NoError(t, err)

	for range 20 {
		again, err := scheduler.Order(ns, conns)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()

	_, err := scheduler.Order(
		nodes("a", "b"),
		connections([2]string{"a", "b"}, [2]string{"b", "a"}),
	)

	require.Error(t, err)

	var cycleErr *scheduler.CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.NotEmpty(t, cycleErr.NodeID)
}

func TestOrder_SelfLoop(t *testing.T) {
	t.Parallel()

	_, err := scheduler.Order(
		nodes("a"),
		connections([2]string{"a", "a"}),
	)

	var cycleErr *scheduler.CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "a", cycleErr.NodeID)
}

func TestOrder_EmptyGraph(t *testing.T) {
	t.Parallel()

	order, err := scheduler.Order(nil, nil)

	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestOrder_ConnectionToUnknownNodeIgnored(t *testing.T) {
	t.Parallel()

	order, err := scheduler.Order(
		nodes("a"),
		connections([2]string{"a", "ghost"}),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, order)
}
