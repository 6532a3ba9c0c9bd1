package protocol

import "github.com/flowdeck/flowdeck/pkg/models"

// ExecutionListener observes workflow execution lifecycle changes. The engine
// delivers the execution record after start, after each node, and on every
// terminal transition. Listeners must treat the record as a snapshot.
type ExecutionListener interface {
	OnExecutionStarted(execution *models.WorkflowExecution)
	OnExecutionUpdated(execution *models.WorkflowExecution)
	OnExecutionFinished(execution *models.WorkflowExecution)
}

// NodeListener observes node-level progress, including interim retrying
// states, so observers see retry attempts and not just final outcomes.
type NodeListener interface {
	OnNodeStarted(nodeExecution *models.NodeExecution)
	OnNodeUpdated(nodeExecution *models.NodeExecution)
}

// NopExecutionListener is an ExecutionListener that ignores everything.
type NopExecutionListener struct{}

func (NopExecutionListener) OnExecutionStarted(*models.WorkflowExecution)  {}
func (NopExecutionListener) OnExecutionUpdated(*models.WorkflowExecution)  {}
func (NopExecutionListener) OnExecutionFinished(*models.WorkflowExecution) {}

// NopNodeListener is a NodeListener that ignores everything.
type NopNodeListener struct{}

func (NopNodeListener) OnNodeStarted(*models.NodeExecution) {}
func (NopNodeListener) OnNodeUpdated(*models.NodeExecution) {}
