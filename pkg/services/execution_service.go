package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/flowdeck/flowdeck/pkg/engine"
	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/protocol"
	"github.com/flowdeck/flowdeck/pkg/registry"
)

// ErrExecutionNotActive indicates the execution is not currently running in
// this process.
var ErrExecutionNotActive = errors.New("execution is not active")

// ExecutionService starts workflow runs and tracks the active runners so
// cancel, pause and resume can reach them. Finished executions are persisted
// and served from the execution repository.
type ExecutionService struct {
	persist  persistence.Persistence
	registry *registry.Registry
	bus      eventbus.EventPublisher
	logger   *slog.Logger
	tracer   trace.Tracer

	mu      sync.Mutex
	runners map[string]*engine.Runner
}

// Option configures the execution service.
type Option func(*ExecutionService)

// WithTracer enables span creation on the runners the service builds.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *ExecutionService) { s.tracer = tracer }
}

// NewExecutionService creates an execution service. The event bus is optional;
// a nil bus disables event publishing.
func NewExecutionService(persist persistence.Persistence, reg *registry.Registry, bus eventbus.EventPublisher, logger *slog.Logger, opts ...Option) *ExecutionService {
	s := &ExecutionService{
		persist:  persist,
		registry: reg,
		bus:      bus,
		logger:   logger.With("module", "execution-service"),
		runners:  make(map[string]*engine.Runner),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// runTracker indexes the runner by execution id while the run is active and
// forwards lifecycle callbacks to the wrapped listener.
type runTracker struct {
	service *ExecutionService
	runner  *engine.Runner
	next    protocol.ExecutionListener
}

func (t *runTracker) OnExecutionStarted(execution *models.WorkflowExecution) {
	t.service.mu.Lock()
	t.service.runners[execution.ID] = t.runner
	t.service.mu.Unlock()

	t.next.OnExecutionStarted(execution)
}

func (t *runTracker) OnExecutionUpdated(execution *models.WorkflowExecution) {
	t.next.OnExecutionUpdated(execution)
}

func (t *runTracker) OnExecutionFinished(execution *models.WorkflowExecution) {
	t.service.mu.Lock()
	delete(t.service.runners, execution.ID)
	t.service.mu.Unlock()

	t.next.OnExecutionFinished(execution)
}

// newRunner builds a runner wired with tracking and, when a bus is present,
// event publishing.
func (s *ExecutionService) newRunner(workflow *models.Workflow) *engine.Runner {
	tracker := &runTracker{service: s, next: protocol.NopExecutionListener{}}
	opts := []engine.Option{
		engine.WithLogger(s.logger),
		engine.WithExecutionListener(tracker),
	}

	if s.bus != nil {
		publisher := engine.NewEventPublisher(s.bus, workflow.ID, s.logger)
		tracker.next = publisher

		opts = append(opts, engine.WithNodeListener(publisher))
	}

	if s.tracer != nil {
		opts = append(opts, engine.WithTracer(s.tracer))
	}

	runner := engine.NewRunner(workflow, s.registry, opts...)
	tracker.runner = runner

	return runner
}

// Start runs the workflow synchronously and persists the resulting record.
func (s *ExecutionService) Start(ctx context.Context, workflowID string, triggerData map[string]any) (*models.WorkflowExecution, error) {
	workflow, err := s.persist.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	runner := s.newRunner(workflow)

	execution, err := runner.ExecuteWorkflow(ctx, triggerData)
	if err != nil {
		return nil, err
	}

	err = s.persist.SaveExecution(ctx, execution)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist execution record",
			"execution_id", execution.ID, "error", err)
	}

	return execution, nil
}

// StartAsync launches the run in the background and returns the runner handle.
// Callers observe progress via events or Get.
func (s *ExecutionService) StartAsync(ctx context.Context, workflowID string, triggerData map[string]any) (*engine.Runner, error) {
	workflow, err := s.persist.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	runner := s.newRunner(workflow)
	background := context.WithoutCancel(ctx)

	go func() {
		execution, err := runner.ExecuteWorkflow(background, triggerData)
		if err != nil {
			s.logger.Error("Background execution failed to start",
				"workflow_id", workflowID, "error", err)

			return
		}

		err = s.persist.SaveExecution(background, execution)
		if err != nil {
			s.logger.Error("Failed to persist execution record",
				"execution_id", execution.ID, "error", err)
		}
	}()

	return runner, nil
}

// Get returns an execution record: the live one when the run is active, the
// persisted one otherwise.
func (s *ExecutionService) Get(ctx context.Context, executionID string) (*models.WorkflowExecution, error) {
	s.mu.Lock()
	runner, active := s.runners[executionID]
	s.mu.Unlock()

	if active {
		if execution := runner.Execution(); execution != nil {
			return execution, nil
		}
	}

	return s.persist.ExecutionByID(ctx, executionID)
}

// List returns persisted executions for a workflow.
func (s *ExecutionService) List(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	return s.persist.Executions(ctx, workflowID)
}

// Cancel requests cooperative cancellation of an active run.
func (s *ExecutionService) Cancel(executionID string) error {
	runner, err := s.activeRunner(executionID)
	if err != nil {
		return err
	}

	runner.CancelExecution()

	return nil
}

// Pause flips the paused flag on an active run.
func (s *ExecutionService) Pause(executionID string) error {
	runner, err := s.activeRunner(executionID)
	if err != nil {
		return err
	}

	runner.PauseExecution()

	return nil
}

// Resume reverts a pause on an active run.
func (s *ExecutionService) Resume(executionID string) error {
	runner, err := s.activeRunner(executionID)
	if err != nil {
		return err
	}

	runner.ResumeExecution()

	return nil
}

func (s *ExecutionService) activeRunner(executionID string) (*engine.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runner, ok := s.runners[executionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotActive, executionID)
	}

	return runner, nil
}
