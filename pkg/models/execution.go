package models

import (
	"maps"
	"time"
)

// ExecutionStatus is the lifecycle state of a workflow run.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusPaused    ExecutionStatus = "paused"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// NodeExecutionStatus is the lifecycle state of one node within a run.
type NodeExecutionStatus string

const (
	NodeExecutionStatusIdle      NodeExecutionStatus = "idle"
	NodeExecutionStatusRunning   NodeExecutionStatus = "running"
	NodeExecutionStatusRetrying  NodeExecutionStatus = "retrying"
	NodeExecutionStatusCompleted NodeExecutionStatus = "completed"
	NodeExecutionStatusFailed    NodeExecutionStatus = "failed"
)

// LogLevel classifies execution log entries.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ExecutionLog is one entry in a node execution's ordered log.
type ExecutionLog struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewExecutionLog creates a log entry stamped with the current time.
func NewExecutionLog(level LogLevel, message string, data map[string]any) ExecutionLog {
	return ExecutionLog{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Data:      data,
	}
}

// NodeExecution is the runtime record of one node's execution within a run.
type NodeExecution struct {
	ID          string              `json:"id"`
	NodeID      string              `json:"node_id"`
	Status      NodeExecutionStatus `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Duration    time.Duration       `json:"duration"`
	RetryCount  int                 `json:"retry_count"`
	Input       map[string]any      `json:"input,omitempty"`
	Output      map[string]any      `json:"output,omitempty"`
	Logs        []ExecutionLog      `json:"logs"`
	Error       *ExecutionError     `json:"error,omitempty"`
}

// NewNodeExecution creates a running record for the given node.
func NewNodeExecution(nodeID string, input map[string]any) *NodeExecution {
	return &NodeExecution{
		ID:        NewID(),
		NodeID:    nodeID,
		Status:    NodeExecutionStatusRunning,
		StartedAt: time.Now().UTC(),
		Input:     input,
		Logs:      []ExecutionLog{},
	}
}

// Finish stamps the end time and duration and sets the terminal status.
func (ne *NodeExecution) Finish(status NodeExecutionStatus) {
	now := time.Now().UTC()
	ne.CompletedAt = &now
	ne.Duration = now.Sub(ne.StartedAt)
	ne.Status = status
}

// AppendLog adds entries to the node's ordered log.
func (ne *NodeExecution) AppendLog(logs ...ExecutionLog) {
	ne.Logs = append(ne.Logs, logs...)
}

// Clone returns a deep copy of the node execution record.
func (ne *NodeExecution) Clone() *NodeExecution {
	clone := *ne

	if ne.CompletedAt != nil {
		completedAt := *ne.CompletedAt
		clone.CompletedAt = &completedAt
	}

	clone.Input = maps.Clone(ne.Input)
	clone.Output = maps.Clone(ne.Output)

	clone.Logs = make([]ExecutionLog, len(ne.Logs))
	for i, entry := range ne.Logs {
		clone.Logs[i] = entry
		clone.Logs[i].Data = maps.Clone(entry.Data)
	}

	if ne.Error != nil {
		execErr := *ne.Error
		clone.Error = &execErr
	}

	return &clone
}

// WorkflowExecution represents one run of a workflow.
type WorkflowExecution struct {
	ID             string           `json:"id"`
	WorkflowID     string           `json:"workflow_id"`
	Status         ExecutionStatus  `json:"status"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	Duration       time.Duration    `json:"duration"`
	NodeExecutions []*NodeExecution `json:"node_executions"`
	Context        ExecutionContext `json:"context"`
	Error          *ExecutionError  `json:"error,omitempty"`
}

// NewWorkflowExecution creates a running execution record for a workflow.
func NewWorkflowExecution(workflowID string, execCtx ExecutionContext) *WorkflowExecution {
	return &WorkflowExecution{
		ID:             NewID(),
		WorkflowID:     workflowID,
		Status:         ExecutionStatusRunning,
		StartedAt:      time.Now().UTC(),
		NodeExecutions: []*NodeExecution{},
		Context:        execCtx,
	}
}

// Finish stamps the end time and duration and sets the terminal status.
func (we *WorkflowExecution) Finish(status ExecutionStatus) {
	now := time.Now().UTC()
	we.CompletedAt = &now
	we.Duration = now.Sub(we.StartedAt)
	we.Status = status
}

// Clone returns a deep copy of the execution record. Observers get clones so
// a record handed out mid-run never aliases the one the driver mutates.
func (we *WorkflowExecution) Clone() *WorkflowExecution {
	clone := *we

	if we.CompletedAt != nil {
		completedAt := *we.CompletedAt
		clone.CompletedAt = &completedAt
	}

	clone.NodeExecutions = make([]*NodeExecution, len(we.NodeExecutions))
	for i, ne := range we.NodeExecutions {
		clone.NodeExecutions[i] = ne.Clone()
	}

	clone.Context = we.Context.Clone()

	if we.Error != nil {
		execErr := *we.Error
		clone.Error = &execErr
	}

	return &clone
}

// NodeExecutionFor returns the recorded execution for a node, if any.
func (we *WorkflowExecution) NodeExecutionFor(nodeID string) (*NodeExecution, bool) {
	for _, ne := range we.NodeExecutions {
		if ne.NodeID == nodeID {
			return ne, true
		}
	}

	return nil, false
}
