// Package services implements the application layer between transports (HTTP,
// CLI) and the persistence and engine packages.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validatorlib "github.com/go-playground/validator/v10"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/validation"
)

var (
	// ErrNodeExists indicates the node id is already taken in the workflow.
	ErrNodeExists = errors.New("node already exists")

	// ErrDanglingConnection indicates a connection referencing a missing node.
	ErrDanglingConnection = errors.New("connection references unknown node")

	// ErrVariableNotFound indicates a variable name unknown to the workflow.
	ErrVariableNotFound = errors.New("variable not found")
)

// WorkflowService owns workflow CRUD and graph editing. Every mutation stamps
// UpdatedAt and persists through the repository.
type WorkflowService struct {
	repo      persistence.WorkflowRepository
	validator *validatorlib.Validate
	logger    *slog.Logger
}

// NewWorkflowService creates a workflow service.
func NewWorkflowService(repo persistence.WorkflowRepository, logger *slog.Logger) *WorkflowService {
	return &WorkflowService{
		repo:      repo,
		validator: validatorlib.New(),
		logger:    logger.With("module", "workflow-service"),
	}
}

// Create builds and persists a new empty workflow.
func (s *WorkflowService) Create(ctx context.Context, name, description string) (*models.Workflow, error) {
	workflow := models.NewWorkflow(name, description)

	err := s.validator.Struct(workflow)
	if err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	err = s.repo.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Workflow created", "workflow_id", workflow.ID, "name", name)

	return workflow, nil
}

// Get loads a workflow by id.
func (s *WorkflowService) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return s.repo.WorkflowByID(ctx, id)
}

// List returns all workflows.
func (s *WorkflowService) List(ctx context.Context) ([]*models.Workflow, error) {
	return s.repo.Workflows(ctx)
}

// Update persists caller-side changes to name, description or settings.
func (s *WorkflowService) Update(ctx context.Context, workflow *models.Workflow) error {
	err := s.validator.Struct(workflow)
	if err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}

	workflow.Touch()

	return s.repo.SaveWorkflow(ctx, workflow)
}

// Delete removes a workflow.
func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteWorkflow(ctx, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Workflow deleted", "workflow_id", id)

	return nil
}

// Validate runs graph validation without persisting anything.
func (s *WorkflowService) Validate(ctx context.Context, id string) (*validation.Result, error) {
	workflow, err := s.repo.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := validation.Validate(workflow)

	return &result, nil
}

// AddNode appends a node to the workflow graph. Node ids are unique within a
// workflow.
func (s *WorkflowService) AddNode(ctx context.Context, workflowID string, node *models.WorkflowNode) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	if node.ID == "" {
		node.ID = models.NewID()
	}

	for _, existing := range workflow.Nodes {
		if existing.ID == node.ID {
			return fmt.Errorf("%w: %s", ErrNodeExists, node.ID)
		}
	}

	err = s.validator.Struct(node)
	if err != nil {
		return fmt.Errorf("invalid node: %w", err)
	}

	workflow.Nodes = append(workflow.Nodes, node)
	workflow.Touch()

	return s.repo.SaveWorkflow(ctx, workflow)
}

// UpdateNode replaces a node in place, keeping graph order.
func (s *WorkflowService) UpdateNode(ctx context.Context, workflowID string, node *models.WorkflowNode) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	err = s.validator.Struct(node)
	if err != nil {
		return fmt.Errorf("invalid node: %w", err)
	}

	for i, existing := range workflow.Nodes {
		if existing.ID == node.ID {
			workflow.Nodes[i] = node
			workflow.Touch()

			return s.repo.SaveWorkflow(ctx, workflow)
		}
	}

	return fmt.Errorf("%w: %s", persistence.ErrNodeNotFound, node.ID)
}

// RemoveNode deletes a node and cascades to every connection touching it.
func (s *WorkflowService) RemoveNode(ctx context.Context, workflowID, nodeID string) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	index := -1

	for i, node := range workflow.Nodes {
		if node.ID == nodeID {
			index = i

			break
		}
	}

	if index < 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNodeNotFound, nodeID)
	}

	workflow.Nodes = append(workflow.Nodes[:index], workflow.Nodes[index+1:]...)

	kept := workflow.Connections[:0]

	for _, conn := range workflow.Connections {
		if conn.SourceNodeID == nodeID || conn.TargetNodeID == nodeID {
			continue
		}

		kept = append(kept, conn)
	}

	workflow.Connections = kept
	workflow.Touch()

	return s.repo.SaveWorkflow(ctx, workflow)
}

// AddConnection appends an edge after checking both endpoints exist.
func (s *WorkflowService) AddConnection(ctx context.Context, workflowID string, conn *models.Connection) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	if conn.ID == "" {
		conn.ID = models.NewID()
	}

	if !hasNode(workflow, conn.SourceNodeID) {
		return fmt.Errorf("%w: source %s", ErrDanglingConnection, conn.SourceNodeID)
	}

	if !hasNode(workflow, conn.TargetNodeID) {
		return fmt.Errorf("%w: target %s", ErrDanglingConnection, conn.TargetNodeID)
	}

	workflow.Connections = append(workflow.Connections, conn)
	workflow.Touch()

	return s.repo.SaveWorkflow(ctx, workflow)
}

// RemoveConnection deletes an edge by id.
func (s *WorkflowService) RemoveConnection(ctx context.Context, workflowID, connectionID string) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	for i, conn := range workflow.Connections {
		if conn.ID == connectionID {
			workflow.Connections = append(workflow.Connections[:i], workflow.Connections[i+1:]...)
			workflow.Touch()

			return s.repo.SaveWorkflow(ctx, workflow)
		}
	}

	return fmt.Errorf("%w: %s", persistence.ErrConnectionNotFound, connectionID)
}

// SetVariable creates or updates a named variable.
func (s *WorkflowService) SetVariable(ctx context.Context, workflowID string, variable models.Variable) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	if variable.ID == "" {
		variable.ID = models.NewID()
	}

	err = s.validator.Struct(variable)
	if err != nil {
		return fmt.Errorf("invalid variable: %w", err)
	}

	updated := false

	for i, existing := range workflow.Variables {
		if existing.Name == variable.Name {
			variable.ID = existing.ID
			workflow.Variables[i] = variable
			updated = true

			break
		}
	}

	if !updated {
		workflow.Variables = append(workflow.Variables, variable)
	}

	workflow.Touch()

	return s.repo.SaveWorkflow(ctx, workflow)
}

// RemoveVariable deletes a variable by name.
func (s *WorkflowService) RemoveVariable(ctx context.Context, workflowID, name string) error {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	for i, variable := range workflow.Variables {
		if variable.Name == name {
			workflow.Variables = append(workflow.Variables[:i], workflow.Variables[i+1:]...)
			workflow.Touch()

			return s.repo.SaveWorkflow(ctx, workflow)
		}
	}

	return fmt.Errorf("%w: %s", ErrVariableNotFound, name)
}

// Clone duplicates a workflow under a new id. The copy gets fresh timestamps
// and keeps the source graph, variables and triggers.
func (s *WorkflowService) Clone(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.repo.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	clone := workflow.Clone()
	clone.ID = models.NewID()
	clone.Name = workflow.Name + " (copy)"
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt

	err = s.repo.SaveWorkflow(ctx, clone)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Workflow cloned", "source_id", workflowID, "workflow_id", clone.ID)

	return clone, nil
}

func hasNode(workflow *models.Workflow, nodeID string) bool {
	for _, node := range workflow.Nodes {
		if node.ID == nodeID {
			return true
		}
	}

	return false
}
