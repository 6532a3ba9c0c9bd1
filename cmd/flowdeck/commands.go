package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowdeck/flowdeck/pkg/cmd"
	"github.com/flowdeck/flowdeck/pkg/engine"
	"github.com/flowdeck/flowdeck/pkg/log"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/otelhelper"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/schedule"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/flowdeck/flowdeck/pkg/validation"
)

func newWorkflowService(ctx context.Context, command *cli.Command) (*services.WorkflowService, persistence.Persistence, error) {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("cli")

	persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, nil, err
	}

	return services.NewWorkflowService(persist, logger), persist, nil
}

// loadWorkflow resolves the positional argument as either a workflow JSON
// file or an id in the store.
func loadWorkflow(ctx context.Context, svc *services.WorkflowService, arg string) (*models.Workflow, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow file: %w", err)
		}

		var workflow models.Workflow

		err = json.Unmarshal(data, &workflow)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workflow file: %w", err)
		}

		return &workflow, nil
	}

	return svc.Get(ctx, arg)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List workflows",
		Action: func(ctx context.Context, command *cli.Command) error {
			svc, persist, err := newWorkflowService(ctx, command)
			if err != nil {
				return err
			}
			defer func() { _ = persist.Close(ctx) }()

			workflows, err := svc.List(ctx)
			if err != nil {
				return err
			}

			for _, workflow := range workflows {
				fmt.Printf("%s\t%s\t%d nodes\t%d connections\n",
					workflow.ID, workflow.Name, len(workflow.Nodes), len(workflow.Connections))
			}

			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a workflow graph",
		ArgsUsage: "<workflow-id | workflow.json>",
		Action: func(ctx context.Context, command *cli.Command) error {
			arg := command.Args().First()
			if arg == "" {
				return errors.New("workflow id or file is required")
			}

			svc, persist, err := newWorkflowService(ctx, command)
			if err != nil {
				return err
			}
			defer func() { _ = persist.Close(ctx) }()

			workflow, err := loadWorkflow(ctx, svc, arg)
			if err != nil {
				return err
			}

			result := validation.Validate(workflow)

			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(output))

			if !result.Valid {
				return errors.New("workflow is invalid")
			}

			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a workflow and print the execution record",
		ArgsUsage: "<workflow-id | workflow.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "trigger-data",
				Usage: "Trigger data as a JSON object",
				Value: "{}",
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing (OTLP HTTP exporter)",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			arg := command.Args().First()
			if arg == "" {
				return errors.New("workflow id or file is required")
			}

			var triggerData map[string]any

			err := json.Unmarshal([]byte(command.String("trigger-data")), &triggerData)
			if err != nil {
				return fmt.Errorf("invalid trigger data: %w", err)
			}

			log.Setup(command.String("log-level"))
			logger := log.WithModule("cli")

			persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer func() { _ = persist.Close(ctx) }()

			registry := cmd.NewRegistry(logger)

			var tracer trace.Tracer

			if command.Bool("tracing") {
				tracer, err = otelhelper.NewTracer(ctx, "flowdeck")
				if err != nil {
					return err
				}
			}

			var execution *models.WorkflowExecution

			if info, statErr := os.Stat(arg); statErr == nil && !info.IsDir() {
				workflow, err := loadWorkflow(ctx, nil, arg)
				if err != nil {
					return err
				}

				runnerOpts := []engine.Option{engine.WithLogger(logger)}
				if tracer != nil {
					runnerOpts = append(runnerOpts, engine.WithTracer(tracer))
				}

				runner := engine.NewRunner(workflow, registry, runnerOpts...)

				execution, err = runner.ExecuteWorkflow(ctx, triggerData)
				if err != nil {
					return err
				}
			} else {
				var serviceOpts []services.Option
				if tracer != nil {
					serviceOpts = append(serviceOpts, services.WithTracer(tracer))
				}

				executionService := services.NewExecutionService(persist, registry, nil, logger, serviceOpts...)

				execution, err = executionService.Start(ctx, arg, triggerData)
				if err != nil {
					return err
				}
			}

			output, err := json.MarshalIndent(execution, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(output))

			if execution.Status != models.ExecutionStatusCompleted {
				return fmt.Errorf("execution finished with status %s", execution.Status)
			}

			return nil
		},
	}
}

func schedulerCommand() *cli.Command {
	return &cli.Command{
		Name:  "scheduler",
		Usage: "Run cron schedules defined by workflow triggers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("scheduler")

			persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}
			defer func() { _ = persist.Close(ctx) }()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "flowdeck-scheduler", logger)
			if err != nil {
				return err
			}
			defer func() { _ = eventBus.Close() }()

			registry := cmd.NewRegistry(logger)
			executionService := services.NewExecutionService(persist, registry, eventBus, logger)

			entries, err := scheduleEntries(ctx, persist)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				logger.WarnContext(ctx, "No schedule triggers found, nothing to do")

				return nil
			}

			source, err := schedule.NewSource(entries, logger)
			if err != nil {
				return err
			}

			err = source.Start(ctx, func(ctx context.Context, workflowID string, triggerData map[string]any) error {
				_, err := executionService.Start(ctx, workflowID, triggerData)

				return err
			})
			if err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			return source.Stop(ctx)
		},
	}
}

// scheduleEntries collects cron entries from workflow triggers of type
// "schedule".
func scheduleEntries(ctx context.Context, persist persistence.Persistence) ([]schedule.Entry, error) {
	workflows, err := persist.Workflows(ctx)
	if err != nil {
		return nil, err
	}

	var entries []schedule.Entry

	for _, workflow := range workflows {
		for _, trigger := range workflow.Triggers {
			if trigger.Type != "schedule" {
				continue
			}

			cronExpr, _ := trigger.Config["cron"].(string)

			entries = append(entries, schedule.Entry{
				ID:         trigger.ID,
				CronExpr:   cronExpr,
				WorkflowID: workflow.ID,
			})
		}
	}

	return entries, nil
}
