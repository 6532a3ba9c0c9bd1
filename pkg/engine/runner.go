// Package engine executes workflow graphs: it validates the graph, orders
// nodes topologically and runs them sequentially with bounded retry.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowdeck/flowdeck/pkg/graph"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/protocol"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/scheduler"
	"github.com/flowdeck/flowdeck/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrAlreadyRunning is returned when ExecuteWorkflow is called while an
	// execution is in flight. Starting is not queued; the call is rejected.
	ErrAlreadyRunning = errors.New("an execution is already running")

	// ErrInvalidWorkflow is returned when validation blocks execution.
	ErrInvalidWorkflow = errors.New("workflow validation failed")
)

// Runner drives one workflow's executions. At most one execution is active
// per Runner; the live execution record is guarded by the runner mutex and
// observers only ever receive deep snapshots of it, never the live object.
type Runner struct {
	workflow *models.Workflow
	registry *registry.Registry
	policy   models.RetryPolicy
	logger   *slog.Logger
	tracer   trace.Tracer

	execListener protocol.ExecutionListener
	nodeListener protocol.NodeListener

	mu        sync.Mutex
	running   bool
	cancelled atomic.Bool
	paused    atomic.Bool
	execution *models.WorkflowExecution
}

// Option configures a Runner.
type Option func(*Runner)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy models.RetryPolicy) Option {
	return func(r *Runner) { r.policy = policy }
}

// WithExecutionListener sets the execution lifecycle observer.
func WithExecutionListener(listener protocol.ExecutionListener) Option {
	return func(r *Runner) { r.execListener = listener }
}

// WithNodeListener sets the node progress observer.
func WithNodeListener(listener protocol.NodeListener) Option {
	return func(r *Runner) { r.nodeListener = listener }
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithTracer enables span creation around executions and node dispatches.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) { r.tracer = tracer }
}

// NewRunner creates a runner over a snapshot of the workflow. The workflow is
// cloned so concurrent edits by callers cannot change the graph mid-run.
func NewRunner(workflow *models.Workflow, reg *registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		workflow:     workflow.Clone(),
		registry:     reg,
		policy:       DefaultPolicyFor(workflow),
		logger:       slog.Default().With("module", "engine", "workflow_id", workflow.ID),
		execListener: protocol.NopExecutionListener{},
		nodeListener: protocol.NopNodeListener{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DefaultPolicyFor derives a retry policy from the workflow settings.
func DefaultPolicyFor(workflow *models.Workflow) models.RetryPolicy {
	policy := models.DefaultRetryPolicy()
	if workflow.Settings.MaxRetries > 0 {
		policy.MaxRetries = workflow.Settings.MaxRetries
	}

	if workflow.Settings.RetryDelay > 0 {
		policy.InitialDelay = workflow.Settings.RetryDelay
	}

	return policy
}

// Execution returns a snapshot of the most recent execution record, if any.
// The snapshot is a deep copy; the driver keeps mutating the live record.
func (r *Runner) Execution() *models.WorkflowExecution {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.execution == nil {
		return nil
	}

	return r.execution.Clone()
}

// snapshot clones the live record for listener notifications. Must not be
// called before the record exists.
func (r *Runner) snapshot() *models.WorkflowExecution {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execution.Clone()
}

// CancelExecution requests cooperative cancellation. The flag is polled at
// the top of each driver iteration; in-flight node work is not interrupted.
func (r *Runner) CancelExecution() {
	r.cancelled.Store(true)
}

// PauseExecution flips the observable status flag. It does not halt the
// in-flight node; observers simply see a paused status.
func (r *Runner) PauseExecution() {
	r.mu.Lock()

	if !r.running || r.execution == nil || r.execution.Status.Terminal() {
		r.mu.Unlock()

		return
	}

	r.paused.Store(true)
	r.execution.Status = models.ExecutionStatusPaused
	snapshot := r.execution.Clone()
	r.mu.Unlock()

	r.execListener.OnExecutionUpdated(snapshot)
}

// ResumeExecution reverts a pause.
func (r *Runner) ResumeExecution() {
	r.mu.Lock()

	if !r.paused.Load() || r.execution == nil || r.execution.Status.Terminal() {
		r.mu.Unlock()

		return
	}

	r.paused.Store(false)
	r.execution.Status = models.ExecutionStatusRunning
	snapshot := r.execution.Clone()
	r.mu.Unlock()

	r.execListener.OnExecutionUpdated(snapshot)
}

// ExecuteWorkflow runs the workflow once. Calling it while an execution is
// active returns ErrAlreadyRunning. Validation failures block the run before
// any execution record is created. Node failures never propagate as errors;
// they end up in the returned execution's Error field.
func (r *Runner) ExecuteWorkflow(ctx context.Context, triggerData map[string]any) (*models.WorkflowExecution, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()

		return nil, ErrAlreadyRunning
	}

	r.running = true
	r.cancelled.Store(false)
	r.paused.Store(false)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	result := validation.Validate(r.workflow)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkflow, result.Errors)
	}

	execCtx := models.ExecutionContext{
		ExecutionID: models.NewID(),
		WorkflowID:  r.workflow.ID,
		TriggerData: triggerData,
		Variables:   r.workflow.VariableMap(),
		NodeResults: make(map[string]map[string]any),
	}

	execution := models.NewWorkflowExecution(r.workflow.ID, execCtx)
	execution.Context.ExecutionID = execution.ID

	r.mu.Lock()
	r.execution = execution
	r.mu.Unlock()

	logger := r.logger.With("execution_id", execution.ID)
	logger.Info("Starting workflow execution", "nodes", len(r.workflow.Nodes))

	ctx, span := r.startSpan(ctx, "workflow.execute",
		attribute.String("workflow.id", r.workflow.ID),
		attribute.String("execution.id", execution.ID),
	)
	defer span.End()

	r.execListener.OnExecutionStarted(r.snapshot())

	r.run(ctx, execution, logger)

	r.execListener.OnExecutionFinished(r.snapshot())
	logger.Info("Workflow execution finished", "status", execution.Status, "duration", execution.Duration)

	return execution, nil
}

// run is the driver loop: topological order, sequential dispatch, cooperative
// cancellation at the top of each iteration.
func (r *Runner) run(ctx context.Context, execution *models.WorkflowExecution, logger *slog.Logger) {
	// Validation already requires a trigger; this guards direct misuse when
	// the runner is driven without a prior Validate call.
	if !r.hasTrigger() {
		r.fail(execution, models.NewExecutionError(models.ErrCodeNoTrigger, "no trigger node found", "", false))

		return
	}

	order, err := scheduler.Order(r.workflow.Nodes, r.workflow.Connections)
	if err != nil {
		r.fail(execution, models.WrapExecutionError(err, ""))

		return
	}

	g := graph.New(r.workflow)

	for _, nodeID := range order {
		if r.cancelled.Load() {
			logger.Info("Execution cancelled, skipping remaining nodes", "next_node", nodeID)
			r.finish(execution, models.ExecutionStatusCancelled)

			return
		}

		node, ok := g.NodeByID(nodeID)
		if !ok {
			r.fail(execution, models.NewExecutionError(models.ErrCodeNodeNotFound,
				fmt.Sprintf("node %s not found in workflow", nodeID), nodeID, false))

			return
		}

		input := r.gatherInputs(g, execution, nodeID)

		nodeExecution, nodeErr := r.executeNode(ctx, node, input, &execution.Context, logger)
		r.record(execution, nodeExecution, nodeErr == nil)

		r.execListener.OnExecutionUpdated(r.snapshot())

		if nodeErr != nil {
			if r.workflow.Settings.ErrorHandling == models.ErrorHandlingContinue {
				logger.Warn("Node failed, continuing per error handling mode", "node_id", nodeID, "error", nodeErr)

				continue
			}

			r.fail(execution, models.WrapExecutionError(nodeErr, nodeID))

			return
		}
	}

	r.finish(execution, models.ExecutionStatusCompleted)
}

// finish and fail apply terminal transitions under the runner lock so
// concurrent snapshot readers never observe a half-written record.
func (r *Runner) finish(execution *models.WorkflowExecution, status models.ExecutionStatus) {
	r.mu.Lock()
	execution.Finish(status)
	r.mu.Unlock()
}

func (r *Runner) fail(execution *models.WorkflowExecution, execErr *models.ExecutionError) {
	r.mu.Lock()
	execution.Error = execErr
	execution.Finish(models.ExecutionStatusFailed)
	r.mu.Unlock()
}

// record appends the node record and, on success, publishes its output to the
// context for downstream input gathering. The node record is not mutated
// after this point.
func (r *Runner) record(execution *models.WorkflowExecution, nodeExecution *models.NodeExecution, succeeded bool) {
	r.mu.Lock()
	execution.NodeExecutions = append(execution.NodeExecutions, nodeExecution)

	if succeeded {
		execution.Context.NodeResults[nodeExecution.NodeID] = nodeExecution.Output
	}
	r.mu.Unlock()
}

func (r *Runner) hasTrigger() bool {
	for _, node := range r.workflow.Nodes {
		if node.IsTrigger() {
			return true
		}
	}

	return false
}

// gatherInputs reduces over the connections targeting the node, mapping each
// to the source node's previously recorded output. Sources that have not
// executed contribute nothing.
func (r *Runner) gatherInputs(g *graph.Graph, execution *models.WorkflowExecution, nodeID string) map[string]any {
	input := map[string]any{}

	for _, conn := range g.Incoming(nodeID) {
		output, ok := execution.Context.NodeResults[conn.SourceNodeID]
		if !ok {
			continue
		}

		for k, v := range output {
			input[k] = v
		}
	}

	return input
}

// executeNode dispatches one node with the retry controller wrapped around
// it: an iterative loop with a retryCount accumulator, bounded by the
// policy's MaxRetries.
func (r *Runner) executeNode(ctx context.Context, node *models.WorkflowNode, input map[string]any, execCtx *models.ExecutionContext, logger *slog.Logger) (*models.NodeExecution, error) {
	nodeExecution := models.NewNodeExecution(node.ID, input)
	nodeLogger := logger.With("node_id", node.ID, "node_type", node.Type)

	r.nodeListener.OnNodeStarted(nodeExecution.Clone())

	for {
		result, err := r.dispatch(ctx, node, input, execCtx, nodeLogger)
		if err == nil {
			nodeExecution.Output = result.Output
			nodeExecution.AppendLog(result.Logs...)
			nodeExecution.Finish(models.NodeExecutionStatusCompleted)
			r.nodeListener.OnNodeUpdated(nodeExecution.Clone())

			return nodeExecution, nil
		}

		execErr := models.WrapExecutionError(err, node.ID)

		if execErr.Recoverable && r.policy.IsRetryable(execErr.Code) && nodeExecution.RetryCount < r.policy.MaxRetries {
			delay := r.policy.Delay(nodeExecution.RetryCount)

			nodeExecution.Status = models.NodeExecutionStatusRetrying
			nodeExecution.AppendLog(models.NewExecutionLog(models.LogLevelWarn,
				fmt.Sprintf("retrying in %s (attempt %d of %d)", delay, nodeExecution.RetryCount+1, r.policy.MaxRetries),
				map[string]any{"delay_ms": delay.Milliseconds(), "attempt": nodeExecution.RetryCount + 1, "error": execErr.Message}))

			// Observers see the interim retrying state, not just final outcomes.
			r.nodeListener.OnNodeUpdated(nodeExecution.Clone())
			nodeLogger.Warn("Node failed with recoverable error, retrying",
				"error", execErr.Message, "delay", delay, "attempt", nodeExecution.RetryCount+1)

			if !r.sleep(ctx, delay) {
				break
			}

			nodeExecution.RetryCount++
			nodeExecution.Status = models.NodeExecutionStatusRunning

			continue
		}

		nodeExecution.Error = execErr
		nodeExecution.Finish(models.NodeExecutionStatusFailed)
		r.nodeListener.OnNodeUpdated(nodeExecution.Clone())

		return nodeExecution, execErr
	}

	execErr := models.NewExecutionError(models.ErrCodeTimeout, "execution context cancelled during backoff", node.ID, false)
	nodeExecution.Error = execErr
	nodeExecution.Finish(models.NodeExecutionStatusFailed)
	r.nodeListener.OnNodeUpdated(nodeExecution.Clone())

	return nodeExecution, execErr
}

// dispatch resolves the handler for the node type and runs it once.
func (r *Runner) dispatch(ctx context.Context, node *models.WorkflowNode, input map[string]any, execCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Result, error) {
	ctx, span := r.startSpan(ctx, "node.execute",
		attribute.String("node.id", node.ID),
		attribute.String("node.type", string(node.Type)),
	)
	defer span.End()

	handler, err := r.registry.CreateHandler(ctx, node)
	if err != nil {
		return nil, err
	}

	result, err := handler.Execute(ctx, *execCtx, input, logger)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	return result, nil
}

// sleep waits for the backoff delay, honoring context cancellation. Returns
// false when the context ended first.
func (r *Runner) sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *Runner) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if r.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
