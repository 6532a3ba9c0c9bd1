package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/flowdeck/flowdeck/pkg/engine"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/services"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType("conflict").
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps service and persistence errors onto problem
// responses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "workflow not found")

	case persistence.IsExecutionNotFound(err):
		return notFound(c, "execution not found")

	case errors.Is(err, persistence.ErrNodeNotFound):
		return notFound(c, "node not found")

	case errors.Is(err, persistence.ErrConnectionNotFound):
		return notFound(c, "connection not found")

	case errors.Is(err, services.ErrVariableNotFound):
		return notFound(c, "variable not found")

	case errors.Is(err, services.ErrNodeExists):
		return conflict(c, err.Error())

	case errors.Is(err, services.ErrDanglingConnection):
		return badRequest(c, err.Error())

	case errors.Is(err, services.ErrExecutionNotActive):
		return conflict(c, err.Error())

	case errors.Is(err, engine.ErrInvalidWorkflow):
		return badRequest(c, err.Error())

	case errors.Is(err, engine.ErrAlreadyRunning):
		return conflict(c, err.Error())

	default:
		return internalError(c, err)
	}
}
