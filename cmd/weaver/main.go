// Package main provides the weaver CLI for validating and running workflow
// files locally.
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

	"github.com/voltway/weaver/pkg/cmd"
	"github.com/voltway/weaver/pkg/engine"
	"github.com/voltway/weaver/pkg/graph"
	"github.com/voltway/weaver/pkg/log"
	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/providers/httpmodel"
	"github.com/voltway/weaver/pkg/providers/httptool"
	"github.com/voltway/weaver/pkg/schedule"
	"github.com/voltway/weaver/pkg/services"
)

func main() {
	command := &cli.Command{
		Name:                  "weaver",
		Usage:                 "Validate and run workflow files",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate a workflow file without running it",
				ArgsUsage: "<workflow.json>",
				Action: func(ctx context.Context, command *cli.Command) error {
					return validateWorkflow(command)
				},
			},
			{
				Name:      "run",
				Usage:     "Run a workflow file and stream its events to stdout",
				ArgsUsage: "<workflow.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "JSON object passed to the input node",
						Value:   "{}",
					},
					&cli.DurationFlag{
						Name:    "timeout",
						Usage:   "Run deadline",
						Value:   engine.DefaultRunTimeout,
						Sources: cli.EnvVars("RUN_TIMEOUT"),
					},
					&cli.StringFlag{
						Name:     "model-gateway-url",
						Usage:    "Base URL of the model generation gateway",
						Required: true,
						Sources:  cli.EnvVars("MODEL_GATEWAY_URL"),
					},
					&cli.StringFlag{
						Name:     "tool-gateway-url",
						Usage:    "Base URL of the tool dispatch gateway",
						Required: true,
						Sources:  cli.EnvVars("TOOL_GATEWAY_URL"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return runWorkflow(ctx, command)
				},
			},
			{
				Name:  "scheduler",
				Usage: "Run stored workflow schedules until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "database-url",
						Usage:   "Database connection URL (file path, postgres://, redis://)",
						Value:   "./data",
						Sources: cli.EnvVars("DATABASE_URL"),
					},
					&cli.StringFlag{
						Name:     "model-gateway-url",
						Usage:    "Base URL of the model generation gateway",
						Required: true,
						Sources:  cli.EnvVars("MODEL_GATEWAY_URL"),
					},
					&cli.StringFlag{
						Name:     "tool-gateway-url",
						Usage:    "Base URL of the tool dispatch gateway",
						Required: true,
						Sources:  cli.EnvVars("TOOL_GATEWAY_URL"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return runScheduler(ctx, command)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadWorkflow(command *cli.Command) (*models.Workflow, error) {
	path := command.Args().First()
	if path == "" {
		return nil, errors.New("workflow file path is required")
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}

	return &workflow, nil
}

func validateWorkflow(command *cli.Command) error {
	workflow, err := loadWorkflow(command)
	if err != nil {
		return err
	}

	if _, err := graph.Validate(workflow); err != nil {
		return fmt.Errorf("workflow is invalid: %w", err)
	}

	fmt.Printf("Workflow %q is valid: %d nodes, %d edges\n", workflow.Name, len(workflow.Nodes), len(workflow.Edges))

	return nil
}

func runWorkflow(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("cli")

	workflow, err := loadWorkflow(command)
	if err != nil {
		return err
	}

	query := map[string]any{}
	if err := json.Unmarshal([]byte(command.String("query")), &query); err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	model := httpmodel.NewClient(command.String("model-gateway-url"))
	tools := httptool.NewDispatcher(command.String("tool-gateway-url"))
	registry := cmd.NewRegistry(logger, model, tools)
	executor := engine.NewExecutor(logger, registry)

	handle, err := executor.Start(ctx, workflow, engine.RunOptions{
		TriggeredBy: "cli",
		Query:       query,
		Timeout:     command.Duration("timeout"),
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	for ev := range handle.Events.Subscribe() {
		if err := encoder.Encode(ev); err != nil {
			return err
		}
	}

	run, err := handle.Wait(ctx)
	if err != nil {
		return err
	}

	if run.Status != models.RunStatusCompleted {
		return fmt.Errorf("run %s finished with status %s", run.ID, run.Status)
	}

	return nil
}

func runScheduler(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("scheduler")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	persist := cmd.NewPersistence(ctx, logger, command.String("database-url"))

	defer func() {
		if err := persist.Close(context.Background()); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	model := httpmodel.NewClient(command.String("model-gateway-url"))
	tools := httptool.NewDispatcher(command.String("tool-gateway-url"))
	registry := cmd.NewRegistry(logger, model, tools)
	executor := engine.NewExecutor(logger, registry)
	runs := services.NewRuns(logger, persist, executor, nil)

	scheduler := schedule.NewScheduler(logger, persist, runs)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	scheduler.Stop()

	return nil
}
