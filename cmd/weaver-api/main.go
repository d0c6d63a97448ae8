package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/voltway/weaver/pkg/cmd"
	"github.com/voltway/weaver/pkg/log"
	"github.com/voltway/weaver/pkg/otelhelper"
	"github.com/voltway/weaver/pkg/providers/httpmodel"
	"github.com/voltway/weaver/pkg/providers/httptool"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "weaver-api",
		Usage:                 "Run the workflow execution API server",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL (file path, postgres://, redis://)",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Platform event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
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
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Weaver API")

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			model := httpmodel.NewClient(command.String("model-gateway-url"))
			tools := httptool.NewDispatcher(command.String("tool-gateway-url"))
			registry := cmd.NewRegistry(logger, model, tools)

			var tracer trace.Tracer

			if command.Bool("otel-enabled") {
				var err error

				tracer, err = otelhelper.NewTracer(ctx, "weaver-api")
				if err != nil {
					return err
				}
			}

			api := NewAPI(logger, persistence, registry, eventBus, tracer)

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
