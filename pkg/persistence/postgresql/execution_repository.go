package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
)

// ExecutionRepository handles execution-record database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

const executionColumns = `
	id
  , workflow_id
  , status
  , started_at
  , completed_at
  , duration_ms
  , node_executions
  , context
  , error
`

// ByWorkflow returns all executions for a workflow, oldest first. An empty
// workflowID returns every execution.
func (r *ExecutionRepository) ByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions`
	args := []any{}

	if workflowID != "" {
		query += ` WHERE workflow_id = $1`
		args = append(args, workflowID)
	}

	query += ` ORDER BY started_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.WorkflowExecution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

// GetByID returns one execution or persistence.ErrExecutionNotFound.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`

	execution, err := r.scanExecution(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
	}

	if err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	return execution, nil
}

// Save upserts the execution record.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	nodeExecutionsJSON, err := json.Marshal(execution.NodeExecutions)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to marshal node executions: %w", err))
	}

	contextJSON, err := json.Marshal(execution.Context)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to marshal context: %w", err))
	}

	var errorJSON []byte
	if execution.Error != nil {
		errorJSON, err = json.Marshal(execution.Error)
		if err != nil {
			return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to marshal error: %w", err))
		}
	}

	query := `
		INSERT INTO executions (id, workflow_id, status, started_at, completed_at, duration_ms, node_executions, context, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status
		  , completed_at = EXCLUDED.completed_at
		  , duration_ms = EXCLUDED.duration_ms
		  , node_executions = EXCLUDED.node_executions
		  , context = EXCLUDED.context
		  , error = EXCLUDED.error
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID, execution.WorkflowID, execution.Status,
		execution.StartedAt, execution.CompletedAt, execution.Duration.Milliseconds(),
		nodeExecutionsJSON, contextJSON, errorJSON,
	)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) scanExecution(row rowScanner) (*models.WorkflowExecution, error) {
	var (
		execution          models.WorkflowExecution
		completedAt        sql.NullTime
		durationMS         int64
		nodeExecutionsJSON []byte
		contextJSON        []byte
		errorJSON          []byte
	)

	err := row.Scan(
		&execution.ID, &execution.WorkflowID, &execution.Status,
		&execution.StartedAt, &completedAt, &durationMS,
		&nodeExecutionsJSON, &contextJSON, &errorJSON,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		execution.CompletedAt = &t
	}

	execution.Duration = time.Duration(durationMS) * time.Millisecond

	if len(nodeExecutionsJSON) > 0 {
		err := json.Unmarshal(nodeExecutionsJSON, &execution.NodeExecutions)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal node executions: %w", err)
		}
	}

	if len(contextJSON) > 0 {
		err := json.Unmarshal(contextJSON, &execution.Context)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal context: %w", err)
		}
	}

	if len(errorJSON) > 0 {
		err := json.Unmarshal(errorJSON, &execution.Error)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal error: %w", err)
		}
	}

	return &execution, nil
}
