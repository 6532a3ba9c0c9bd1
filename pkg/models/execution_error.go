package models

import (
	"fmt"
	"time"
)

// Error codes produced by the engine and the built-in node handlers.
const (
	ErrCodeNodeNotFound    = "NODE_NOT_FOUND"
	ErrCodeNoTrigger       = "NO_TRIGGER"
	ErrCodeExecutionFailed = "EXECUTION_FAILED"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeNetworkError    = "NETWORK_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
)

// ExecutionError is the fault record attached to a failed node or execution.
// Recoverable marks errors that are safe to retry when the active retry
// policy lists their code.
type ExecutionError struct {
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Stack       string    `json:"stack,omitempty"`
	NodeID      string    `json:"node_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Recoverable bool      `json:"recoverable"`
}

func (e *ExecutionError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node %s)", e.Code, e.Message, e.NodeID)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewExecutionError creates a timestamped execution error.
func NewExecutionError(code, message, nodeID string, recoverable bool) *ExecutionError {
	return &ExecutionError{
		Code:        code,
		Message:     message,
		NodeID:      nodeID,
		Timestamp:   time.Now().UTC(),
		Recoverable: recoverable,
	}
}

// WrapExecutionError converts an arbitrary fault into an ExecutionError.
// Errors that already carry a code pass through with the node id filled in.
func WrapExecutionError(err error, nodeID string) *ExecutionError {
	if execErr, ok := err.(*ExecutionError); ok {
		if execErr.NodeID == "" {
			execErr.NodeID = nodeID
		}

		return execErr
	}

	return NewExecutionError(ErrCodeExecutionFailed, err.Error(), nodeID, false)
}
