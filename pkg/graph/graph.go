// Package graph provides the structural read model over a workflow: node and
// port lookups and the node-to-node adjacency derived from connections.
package graph

import "github.com/flowdeck/flowdeck/pkg/models"

// Graph answers structural queries over a workflow's nodes and connections.
// It holds no state beyond the workflow it was built from and never mutates it.
type Graph struct {
	workflow *models.Workflow
	nodes    map[string]*models.WorkflowNode
}

// New builds the read model for a workflow.
func New(workflow *models.Workflow) *Graph {
	nodes := make(map[string]*models.WorkflowNode, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		nodes[node.ID] = node
	}

	return &Graph{
		workflow: workflow,
		nodes:    nodes,
	}
}

// NodeByID resolves a node by id.
func (g *Graph) NodeByID(id string) (*models.WorkflowNode, bool) {
	node, ok := g.nodes[id]

	return node, ok
}

// HasIncoming reports whether any connection targets the node.
func (g *Graph) HasIncoming(nodeID string) bool {
	for _, conn := range g.workflow.Connections {
		if conn.TargetNodeID == nodeID {
			return true
		}
	}

	return false
}

// HasOutgoing reports whether any connection originates at the node.
func (g *Graph) HasOutgoing(nodeID string) bool {
	for _, conn := range g.workflow.Connections {
		if conn.SourceNodeID == nodeID {
			return true
		}
	}

	return false
}

// Incoming returns the connections targeting the node, in insertion order.
func (g *Graph) Incoming(nodeID string) []*models.Connection {
	var incoming []*models.Connection

	for _, conn := range g.workflow.Connections {
		if conn.TargetNodeID == nodeID {
			incoming = append(incoming, conn)
		}
	}

	return incoming
}

// Outgoing returns the connections originating at the node, in insertion order.
func (g *Graph) Outgoing(nodeID string) []*models.Connection {
	var outgoing []*models.Connection

	for _, conn := range g.workflow.Connections {
		if conn.SourceNodeID == nodeID {
			outgoing = append(outgoing, conn)
		}
	}

	return outgoing
}

// Adjacency builds the node->node neighbor lists from the connections,
// preserving connection insertion order for each source node.
func (g *Graph) Adjacency() map[string][]string {
	adjacency := make(map[string][]string, len(g.workflow.Nodes))
	for _, node := range g.workflow.Nodes {
		adjacency[node.ID] = nil
	}

	for _, conn := range g.workflow.Connections {
		adjacency[conn.SourceNodeID] = append(adjacency[conn.SourceNodeID], conn.TargetNodeID)
	}

	return adjacency
}

// PortOwner resolves the node owning the given port id, searching both input
// and output port lists.
func (g *Graph) PortOwner(portID string) (*models.WorkflowNode, bool) {
	for _, node := range g.workflow.Nodes {
		for _, port := range node.Inputs {
			if port.ID == portID {
				return node, true
			}
		}

		for _, port := range node.Outputs {
			if port.ID == portID {
				return node, true
			}
		}
	}

	return nil, false
}
