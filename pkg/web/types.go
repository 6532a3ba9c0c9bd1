// Package web provides the HTTP handlers and REST API endpoints for workflow
// management and execution control.
package web

import "github.com/flowdeck/flowdeck/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new workflow.
type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// workflow. All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string                  `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string                  `json:"description,omitempty"`
	Settings    *models.WorkflowSettings `json:"settings,omitempty"`
}

// CreateNodeRequest represents the request body for adding a node to a
// workflow graph.
type CreateNodeRequest struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"       validate:"required"`
	Label     string         `json:"label"      validate:"required,min=1"`
	Config    map[string]any `json:"config"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
}

// UpdateNodeRequest represents the request body for updating a node. The type
// cannot be changed.
type UpdateNodeRequest struct {
	Label     string         `json:"label"      validate:"required,min=1"`
	Config    map[string]any `json:"config"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
}

// CreateConnectionRequest represents the request body for adding an edge.
type CreateConnectionRequest struct {
	SourceNodeID string `json:"source_node_id" validate:"required"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id" validate:"required"`
	TargetPortID string `json:"target_port_id"`
}

// SetVariableRequest represents the request body for setting a workflow
// variable.
type SetVariableRequest struct {
	Name  string `json:"name"  validate:"required,min=1"`
	Type  string `json:"type"`
	Value any    `json:"value"`
	Scope string `json:"scope"`
}

// ExecuteWorkflowRequest represents the request body for starting a run.
type ExecuteWorkflowRequest struct {
	TriggerData map[string]any `json:"trigger_data"`
	Async       bool           `json:"async"`
}
