package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/moogar0880/problems"

	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
)

// NewApp assembles the fiber application with all routes and middleware.
func NewApp(
	workflowService *services.WorkflowService,
	executionService *services.ExecutionService,
	persist persistence.Persistence,
	reg *registry.Registry,
) *fiber.App {
	validate := validator.New(validator.WithRequiredStructEnabled())
	handlers := NewAPIHandlers(workflowService, executionService, persist, validate, reg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c fiber.Ctx, err error) error {
			problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
				WithInstance(c.Path()).
				WithType("internal_error").
				WithError(err)

			return c.Status(fiber.StatusInternalServerError).JSON(problem)
		},
	})

	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowdeck API")
	})

	app.Get("/health", handlers.HealthCheck)
	app.Get("/node-types", handlers.GetNodeTypes)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/validate", handlers.ValidateWorkflow)
	w.Post("/:id/clone", handlers.CloneWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)
	w.Get("/:id/executions", handlers.GetExecutions)

	w.Post("/:id/nodes", handlers.CreateWorkflowNode)
	w.Patch("/:id/nodes/:nodeId", handlers.UpdateWorkflowNode)
	w.Delete("/:id/nodes/:nodeId", handlers.DeleteWorkflowNode)

	w.Post("/:id/connections", handlers.CreateWorkflowConnection)
	w.Delete("/:id/connections/:connectionId", handlers.DeleteWorkflowConnection)

	w.Put("/:id/variables", handlers.SetWorkflowVariable)
	w.Delete("/:id/variables/:name", handlers.DeleteWorkflowVariable)

	e := app.Group("/executions")
	e.Get("/:executionId", handlers.GetExecution)
	e.Post("/:executionId/cancel", handlers.CancelExecution)
	e.Post("/:executionId/pause", handlers.PauseExecution)
	e.Post("/:executionId/resume", handlers.ResumeExecution)

	return app
}
