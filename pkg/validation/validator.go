// Package validation checks workflow graphs for structural problems before
// execution: a required trigger, dangling nodes and circular dependencies.
package validation

import (
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/graph"
	"github.com/flowdeck/flowdeck/pkg/models"
)

// Issue codes. NO_TRIGGER and CIRCULAR_DEPENDENCY block execution;
// NO_INCOMING and NO_OUTGOING are advisory.
const (
	CodeNoTrigger          = "NO_TRIGGER"
	CodeNoIncoming         = "NO_INCOMING"
	CodeNoOutgoing         = "NO_OUTGOING"
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"
)

// Issue is a single finding against a workflow graph.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	NodeID  string `json:"node_id,omitempty"`
}

// Result aggregates all findings. Valid is true iff Errors is empty;
// warnings never block execution.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Validate runs every rule and collects all findings; rules do not
// short-circuit each other.
func Validate(workflow *models.Workflow) Result {
	result := Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}

	g := graph.New(workflow)

	checkTrigger(workflow, &result)
	checkDanglingNodes(workflow, g, &result)
	checkCycles(workflow, g, &result)

	result.Valid = len(result.Errors) == 0

	return result
}

// checkTrigger requires at least one trigger node as the entry point.
func checkTrigger(workflow *models.Workflow, result *Result) {
	for _, node := range workflow.Nodes {
		if node.IsTrigger() {
			return
		}
	}

	result.Errors = append(result.Errors, Issue{
		Code:    CodeNoTrigger,
		Message: "workflow must have at least one trigger node",
	})
}

// checkDanglingNodes warns about non-trigger nodes with no inbound
// connections and nodes declaring outputs that nothing consumes.
func checkDanglingNodes(workflow *models.Workflow, g *graph.Graph, result *Result) {
	for _, node := range workflow.Nodes {
		if !node.IsTrigger() && !g.HasIncoming(node.ID) {
			result.Warnings = append(result.Warnings, Issue{
				Code:    CodeNoIncoming,
				Message: fmt.Sprintf("node %q has no incoming connections and will never receive data", node.Label),
				NodeID:  node.ID,
			})
		}

		if len(node.Outputs) > 0 && !g.HasOutgoing(node.ID) {
			result.Warnings = append(result.Warnings, Issue{
				Code:    CodeNoOutgoing,
				Message: fmt.Sprintf("node %q declares output ports but has no outgoing connections", node.Label),
				NodeID:  node.ID,
			})
		}
	}
}

// checkCycles runs a DFS with a recursion-stack set over the node adjacency.
// Detection stops at the first cycle found.
func checkCycles(workflow *models.Workflow, g *graph.Graph, result *Result) {
	adjacency := g.Adjacency()
	visited := make(map[string]bool, len(workflow.Nodes))
	inStack := make(map[string]bool, len(workflow.Nodes))

	var visit func(nodeID string) (string, bool)
	visit = func(nodeID string) (string, bool) {
		visited[nodeID] = true
		inStack[nodeID] = true

		for _, neighbor := range adjacency[nodeID] {
			if inStack[neighbor] {
				return neighbor, true
			}

			if !visited[neighbor] {
				if cycleNode, found := visit(neighbor); found {
					return cycleNode, true
				}
			}
		}

		inStack[nodeID] = false

		return "", false
	}

	for _, node := range workflow.Nodes {
		if visited[node.ID] {
			continue
		}

		if cycleNode, found := visit(node.ID); found {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeCircularDependency,
				Message: "workflow contains a circular dependency",
				NodeID:  cycleNode,
			})

			return
		}
	}
}
