package models

import "maps"

// NodeType tags a node with the handler responsible for executing it.
// Unknown values are tolerated: the registry falls back to a passthrough
// handler so new node types never break older engines.
type NodeType string

const (
	NodeTypeTrigger     NodeType = "trigger"
	NodeTypeAction      NodeType = "action"
	NodeTypeEmail       NodeType = "email"
	NodeTypeHTTPRequest NodeType = "http_request"
	NodeTypeDatabase    NodeType = "database"
	NodeTypeCondition   NodeType = "condition"
	NodeTypeLoop        NodeType = "loop"
	NodeTypeDelay       NodeType = "delay"
	NodeTypeTransform   NodeType = "transform"
	NodeTypeScript      NodeType = "script"
)

// WorkflowNode represents a node instance in a workflow graph.
type WorkflowNode struct {
	ID        string         `json:"id"    validate:"required"`
	Type      NodeType       `json:"type"  validate:"required"`
	Label     string         `json:"label" validate:"required,min=1"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
	Config    map[string]any `json:"config"`
	Inputs    []Port         `json:"inputs"`
	Outputs   []Port         `json:"outputs"`
}

// IsTrigger reports whether the node is a workflow entry point.
func (n *WorkflowNode) IsTrigger() bool {
	return n.Type == NodeTypeTrigger
}

// Clone returns a deep copy of the node.
func (n *WorkflowNode) Clone() *WorkflowNode {
	clone := *n
	clone.Config = maps.Clone(n.Config)

	clone.Inputs = make([]Port, len(n.Inputs))
	copy(clone.Inputs, n.Inputs)

	clone.Outputs = make([]Port, len(n.Outputs))
	copy(clone.Outputs, n.Outputs)

	return &clone
}
