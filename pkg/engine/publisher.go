package engine

import (
	"context"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
)

// EventPublisher bridges the engine's listener interfaces onto the event bus
// so every execution becomes observable outside the process. Publish failures
// are logged and swallowed: the bus must never fail a run.
type EventPublisher struct {
	bus    eventbus.EventPublisher
	logger *slog.Logger

	workflowID  string
	executionID string
	paused      bool
}

// NewEventPublisher creates a publisher scoped to one workflow.
func NewEventPublisher(bus eventbus.EventPublisher, workflowID string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		bus:        bus,
		logger:     logger.With("module", "engine-publisher", "workflow_id", workflowID),
		workflowID: workflowID,
	}
}

var (
	_ protocol.ExecutionListener = (*EventPublisher)(nil)
	_ protocol.NodeListener      = (*EventPublisher)(nil)
)

func (p *EventPublisher) OnExecutionStarted(execution *models.WorkflowExecution) {
	p.executionID = execution.ID

	p.publish(events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, p.workflowID, execution.ID),
		Execution: execution,
	})
}

func (p *EventPublisher) OnExecutionUpdated(execution *models.WorkflowExecution) {
	if execution.Status == models.ExecutionStatusPaused {
		p.paused = true
		p.publish(events.ExecutionPaused{
			BaseEvent: events.NewBaseEvent(events.ExecutionPausedEvent, p.workflowID, execution.ID),
		})

		return
	}

	if p.paused && execution.Status == models.ExecutionStatusRunning {
		p.paused = false
		p.publish(events.ExecutionResumed{
			BaseEvent: events.NewBaseEvent(events.ExecutionResumedEvent, p.workflowID, execution.ID),
		})

		return
	}

	p.publish(events.ExecutionUpdated{
		BaseEvent: events.NewBaseEvent(events.ExecutionUpdatedEvent, p.workflowID, execution.ID),
		Execution: execution,
	})
}

func (p *EventPublisher) OnExecutionFinished(execution *models.WorkflowExecution) {
	switch execution.Status {
	case models.ExecutionStatusFailed:
		p.publish(events.ExecutionFailed{
			BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, p.workflowID, execution.ID),
			Execution: execution,
			Error:     execution.Error,
			Duration:  execution.Duration,
		})
	case models.ExecutionStatusCancelled:
		p.publish(events.ExecutionCancelled{
			BaseEvent: events.NewBaseEvent(events.ExecutionCancelledEvent, p.workflowID, execution.ID),
			Execution: execution,
		})
	default:
		p.publish(events.ExecutionCompleted{
			BaseEvent: events.NewBaseEvent(events.ExecutionCompletedEvent, p.workflowID, execution.ID),
			Execution: execution,
			Duration:  execution.Duration,
		})
	}
}

func (p *EventPublisher) OnNodeStarted(nodeExecution *models.NodeExecution) {
	p.publish(events.NodeStarted{
		BaseEvent:     events.NewBaseEvent(events.NodeStartedEvent, p.workflowID, p.executionID),
		NodeExecution: nodeExecution,
	})
}

func (p *EventPublisher) OnNodeUpdated(nodeExecution *models.NodeExecution) {
	switch nodeExecution.Status {
	case models.NodeExecutionStatusRetrying:
		p.publish(events.NodeRetrying{
			BaseEvent:     events.NewBaseEvent(events.NodeRetryingEvent, p.workflowID, p.executionID),
			NodeExecution: nodeExecution,
			Attempt:       nodeExecution.RetryCount + 1,
		})
	case models.NodeExecutionStatusFailed:
		p.publish(events.NodeFailed{
			BaseEvent:     events.NewBaseEvent(events.NodeFailedEvent, p.workflowID, p.executionID),
			NodeExecution: nodeExecution,
			Error:         nodeExecution.Error,
		})
	default:
		p.publish(events.NodeFinished{
			BaseEvent:     events.NewBaseEvent(events.NodeFinishedEvent, p.workflowID, p.executionID),
			NodeExecution: nodeExecution,
			Duration:      nodeExecution.Duration,
		})
	}
}

func (p *EventPublisher) publish(event events.Event) {
	err := p.bus.Publish(context.Background(), p.workflowID, event)
	if err != nil {
		p.logger.Error("Failed to publish execution event", "event_type", event.GetType(), "error", err)
	}
}
