// Package models defines the core domain models for node-based workflow automation.
package models

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// ErrorHandlingMode controls how the engine reacts to a failing node.
type ErrorHandlingMode string

const (
	ErrorHandlingStop     ErrorHandlingMode = "stop"     // Abort the execution on the first failed node
	ErrorHandlingContinue ErrorHandlingMode = "continue" // Record the failure and keep scheduling
)

// WorkflowSettings holds execution-level tuning for a workflow.
type WorkflowSettings struct {
	Timeout       time.Duration     `json:"timeout"`
	MaxRetries    int               `json:"max_retries"    validate:"min=0"`
	RetryDelay    time.Duration     `json:"retry_delay"`
	ErrorHandling ErrorHandlingMode `json:"error_handling" validate:"omitempty,oneof=stop continue"`
}

// Variable is a named value available to node handlers during execution.
type Variable struct {
	ID    string `json:"id"`
	Name  string `json:"name"  validate:"required,min=1"`
	Type  string `json:"type"`
	Value any    `json:"value"`
	Scope string `json:"scope"`
}

// WorkflowTrigger describes an external event source that starts the workflow.
type WorkflowTrigger struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"   validate:"required"`
	Config map[string]any `json:"config"`
}

// Workflow is the aggregate root: nodes, the connections between them, the
// variables visible to handlers and the triggers that may start a run.
type Workflow struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"        validate:"required,min=3"`
	Description string            `json:"description"`
	Nodes       []*WorkflowNode   `json:"nodes"`
	Connections []*Connection     `json:"connections"`
	Variables   []Variable        `json:"variables"`
	Triggers    []WorkflowTrigger `json:"triggers"`
	Settings    WorkflowSettings  `json:"settings"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewID returns an identifier unique within a workflow's lifetime.
func NewID() string {
	return uuid.New().String()
}

// NewWorkflow creates an empty workflow with timestamps stamped.
func NewWorkflow(name, description string) *Workflow {
	now := time.Now().UTC()

	return &Workflow{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Nodes:       []*WorkflowNode{},
		Connections: []*Connection{},
		Variables:   []Variable{},
		Triggers:    []WorkflowTrigger{},
		Settings:    DefaultWorkflowSettings(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DefaultWorkflowSettings returns the settings applied to new workflows.
func DefaultWorkflowSettings() WorkflowSettings {
	return WorkflowSettings{
		Timeout:       5 * time.Minute,
		MaxRetries:    3,
		RetryDelay:    time.Second,
		ErrorHandling: ErrorHandlingStop,
	}
}

// Touch stamps the workflow as modified. Every mutation goes through here.
func (w *Workflow) Touch() {
	w.UpdatedAt = time.Now().UTC()
}

// VariableMap flattens the variable list into name->value bindings.
func (w *Workflow) VariableMap() map[string]any {
	vars := make(map[string]any, len(w.Variables))
	for _, v := range w.Variables {
		vars[v.Name] = v.Value
	}

	return vars
}

// Clone returns a deep copy of the workflow. The engine snapshots the
// workflow through Clone before a run so concurrent edits cannot change the
// graph mid-execution.
func (w *Workflow) Clone() *Workflow {
	clone := *w

	clone.Nodes = make([]*WorkflowNode, len(w.Nodes))
	for i, node := range w.Nodes {
		clone.Nodes[i] = node.Clone()
	}

	clone.Connections = make([]*Connection, len(w.Connections))
	for i, conn := range w.Connections {
		c := *conn
		clone.Connections[i] = &c
	}

	clone.Variables = make([]Variable, len(w.Variables))
	copy(clone.Variables, w.Variables)

	clone.Triggers = make([]WorkflowTrigger, len(w.Triggers))
	for i, trigger := range w.Triggers {
		clone.Triggers[i] = trigger
		clone.Triggers[i].Config = maps.Clone(trigger.Config)
	}

	return &clone
}
