// Package scheduler orders workflow nodes for execution with a depth-first
// topological sort over the connection graph.
package scheduler

import (
	"fmt"
	"slices"

	"github.com/flowdeck/flowdeck/pkg/models"
)

// CircularDependencyError is returned when the sort encounters a back-edge.
// The validator should have rejected the graph already; this is the
// scheduler's own defense since it may be invoked standalone.
type CircularDependencyError struct {
	NodeID string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected at node %s", e.NodeID)
}

type color int

const (
	unvisited color = iota
	inProgress
	done
)

// Order returns a sequence of node ids such that for every connection u->v,
// u precedes v. Roots are taken in node list order and neighbors in
// connection insertion order, so the output is deterministic for identical
// input order. Isolated nodes appear exactly once.
func Order(nodes []*models.WorkflowNode, connections []*models.Connection) ([]string, error) {
	adjacency := make(map[string][]string, len(nodes))
	for _, node := range nodes {
		adjacency[node.ID] = nil
	}

	for _, conn := range connections {
		adjacency[conn.SourceNodeID] = append(adjacency[conn.SourceNodeID], conn.TargetNodeID)
	}

	colors := make(map[string]color, len(nodes))
	ordered := make([]string, 0, len(nodes))

	var visit func(nodeID string) error
	visit = func(nodeID string) error {
		switch colors[nodeID] {
		case inProgress:
			return &CircularDependencyError{NodeID: nodeID}
		case done:
			return nil
		}

		colors[nodeID] = inProgress

		for _, neighbor := range adjacency[nodeID] {
			if _, known := adjacency[neighbor]; !known {
				// Connection pointing outside the node set; nothing to order.
				continue
			}

			if err := visit(neighbor); err != nil {
				return err
			}
		}

		colors[nodeID] = done
		ordered = append(ordered, nodeID)

		return nil
	}

	for _, node := range nodes {
		if err := visit(node.ID); err != nil {
			return nil, err
		}
	}

	slices.Reverse(ordered)

	return ordered, nil
}
