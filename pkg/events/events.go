// Package events defines event types for workflow execution lifecycle
// notifications published on the event bus.
package events

import (
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
)

type EventType string

// Topic is the event bus topic carrying all execution events.
const Topic = "flowdeck.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionUpdatedEvent   EventType = "execution.updated"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionCancelledEvent EventType = "execution.cancelled"
	ExecutionPausedEvent    EventType = "execution.paused"
	ExecutionResumedEvent   EventType = "execution.resumed"
	NodeStartedEvent        EventType = "node.started"
	NodeFinishedEvent       EventType = "node.finished"
	NodeRetryingEvent       EventType = "node.retrying"
	NodeFailedEvent         EventType = "node.failed"
)

// Event is implemented by everything publishable on the bus.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	WorkflowID  string    `json:"workflow_id"`
	ExecutionID string    `json:"execution_id"`
}

// NewBaseEvent stamps the shared event fields.
func NewBaseEvent(eventType EventType, workflowID, executionID string) BaseEvent {
	return BaseEvent{
		ID:          models.NewID(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	Execution *models.WorkflowExecution `json:"execution"`
}

func (e ExecutionStarted) GetType() EventType { return ExecutionStartedEvent }

type ExecutionUpdated struct {
	BaseEvent

	Execution *models.WorkflowExecution `json:"execution"`
}

func (e ExecutionUpdated) GetType() EventType { return ExecutionUpdatedEvent }

type ExecutionCompleted struct {
	BaseEvent

	Execution *models.WorkflowExecution `json:"execution"`
	Duration  time.Duration             `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType { return ExecutionCompletedEvent }

type ExecutionFailed struct {
	BaseEvent

	Execution *models.WorkflowExecution `json:"execution"`
	Error     *models.ExecutionError    `json:"error"`
	Duration  time.Duration             `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType { return ExecutionFailedEvent }

type ExecutionCancelled struct {
	BaseEvent

	Execution *models.WorkflowExecution `json:"execution"`
}

func (e ExecutionCancelled) GetType() EventType { return ExecutionCancelledEvent }

type ExecutionPaused struct {
	BaseEvent
}

func (e ExecutionPaused) GetType() EventType { return ExecutionPausedEvent }

type ExecutionResumed struct {
	BaseEvent
}

func (e ExecutionResumed) GetType() EventType { return ExecutionResumedEvent }

type NodeStarted struct {
	BaseEvent

	NodeExecution *models.NodeExecution `json:"node_execution"`
}

func (e NodeStarted) GetType() EventType { return NodeStartedEvent }

type NodeFinished struct {
	BaseEvent

	NodeExecution *models.NodeExecution `json:"node_execution"`
	Duration      time.Duration         `json:"duration"`
}

func (e NodeFinished) GetType() EventType { return NodeFinishedEvent }

type NodeRetrying struct {
	BaseEvent

	NodeExecution *models.NodeExecution `json:"node_execution"`
	Attempt       int                   `json:"attempt"`
	Delay         time.Duration         `json:"delay"`
}

func (e NodeRetrying) GetType() EventType { return NodeRetryingEvent }

type NodeFailed struct {
	BaseEvent

	NodeExecution *models.NodeExecution  `json:"node_execution"`
	Error         *models.ExecutionError `json:"error"`
}

func (e NodeFailed) GetType() EventType { return NodeFailedEvent }
