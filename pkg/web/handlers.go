package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
)

type APIHandlers struct {
	workflowService  *services.WorkflowService
	executionService *services.ExecutionService
	persist          persistence.Persistence
	validator        *validator.Validate
	registry         *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.WorkflowService,
	executionService *services.ExecutionService,
	persist persistence.Persistence,
	validate *validator.Validate,
	reg *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		executionService: executionService,
		persist:          persist,
		validator:        validate,
		registry:         reg,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persist.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":     status,
		"node_types": h.registry.Types(),
		"timestamp":  time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), req.Name, req.Description)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Settings != nil {
		existing.Settings = *req.Settings
	}

	err = h.workflowService.Update(c.Context(), existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(existing)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	result, err := h.workflowService.Validate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) CloneWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	clone, err := h.workflowService.Clone(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}

func (h *APIHandlers) CreateWorkflowNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node := &models.WorkflowNode{
		ID:        req.ID,
		Type:      models.NodeType(req.Type),
		Label:     req.Label,
		Config:    req.Config,
		PositionX: req.PositionX,
		PositionY: req.PositionY,
	}

	err := h.workflowService.AddNode(c.Context(), id, node)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) UpdateWorkflowNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Workflow ID and node ID are required")
	}

	var req UpdateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	var existing *models.WorkflowNode

	for _, node := range workflow.Nodes {
		if node.ID == nodeID {
			existing = node

			break
		}
	}

	if existing == nil {
		return notFound(c, "node not found")
	}

	updated := existing.Clone()
	updated.Label = req.Label
	updated.Config = req.Config
	updated.PositionX = req.PositionX
	updated.PositionY = req.PositionY

	err = h.workflowService.UpdateNode(c.Context(), id, updated)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflowNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Workflow ID and node ID are required")
	}

	err := h.workflowService.RemoveNode(c.Context(), id, nodeID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateWorkflowConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	conn := &models.Connection{
		SourceNodeID: req.SourceNodeID,
		SourcePortID: req.SourcePortID,
		TargetNodeID: req.TargetNodeID,
		TargetPortID: req.TargetPortID,
	}

	err := h.workflowService.AddConnection(c.Context(), id, conn)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conn)
}

func (h *APIHandlers) DeleteWorkflowConnection(c fiber.Ctx) error {
	id := c.Params("id")
	connectionID := c.Params("connectionId")

	if id == "" || connectionID == "" {
		return badRequest(c, "Workflow ID and connection ID are required")
	}

	err := h.workflowService.RemoveConnection(c.Context(), id, connectionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) SetWorkflowVariable(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req SetVariableRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	variable := models.Variable{
		Name:  req.Name,
		Type:  req.Type,
		Value: req.Value,
		Scope: req.Scope,
	}

	err := h.workflowService.SetVariable(c.Context(), id, variable)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) DeleteWorkflowVariable(c fiber.Ctx) error {
	id := c.Params("id")
	name := c.Params("name")

	if id == "" || name == "" {
		return badRequest(c, "Workflow ID and variable name are required")
	}

	err := h.workflowService.RemoveVariable(c.Context(), id, name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ExecuteWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if req.Async {
		runner, err := h.executionService.StartAsync(c.Context(), id, req.TriggerData)
		if err != nil {
			return handleServiceError(c, err)
		}

		// The execution id is assigned when the run starts; poll briefly so
		// the caller gets a handle to track.
		deadline := time.Now().Add(time.Second)
		for runner.Execution() == nil && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}

		if execution := runner.Execution(); execution != nil {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"execution_id": execution.ID,
				"status":       execution.Status,
			})
		}

		return c.SendStatus(fiber.StatusAccepted)
	}

	execution, err := h.executionService.Start(c.Context(), id, req.TriggerData)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.executionService.List(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  executions,
		"total_count": len(executions),
	})
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("executionId")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.executionService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) CancelExecution(c fiber.Ctx) error {
	return h.controlExecution(c, h.executionService.Cancel)
}

func (h *APIHandlers) PauseExecution(c fiber.Ctx) error {
	return h.controlExecution(c, h.executionService.Pause)
}

func (h *APIHandlers) ResumeExecution(c fiber.Ctx) error {
	return h.controlExecution(c, h.executionService.Resume)
}

func (h *APIHandlers) controlExecution(c fiber.Ctx, control func(string) error) error {
	id := c.Params("executionId")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	err := control(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types := make([]fiber.Map, 0)

	for _, id := range h.registry.Types() {
		factory, ok := h.registry.Factory(id)
		if !ok {
			continue
		}

		types = append(types, fiber.Map{
			"id":          factory.ID(),
			"name":        factory.Name(),
			"description": factory.Description(),
			"schema":      factory.Schema(),
		})
	}

	return c.JSON(fiber.Map{"node_types": types})
}
