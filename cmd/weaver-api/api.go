// Package main provides the Weaver API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/voltway/weaver/pkg/engine"
	"github.com/voltway/weaver/pkg/eventbus"
	"github.com/voltway/weaver/pkg/persistence"
	"github.com/voltway/weaver/pkg/registry"
	"github.com/voltway/weaver/pkg/services"
	"github.com/voltway/weaver/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	p persistence.Persistence,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: p,
		registry:    reg,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	opts := []engine.Option{}
	if a.tracer != nil {
		opts = append(opts, engine.WithTracer(a.tracer))
	}

	executor := engine.NewExecutor(a.logger, a.registry, opts...)

	workflowService := services.NewWorkflow(a.persistence)
	runService := services.NewRuns(a.logger, a.persistence, executor, a.eventBus)
	webhookService := services.NewWebhooks(a.logger, a.persistence)
	scheduleService := services.NewSchedules(a.logger, a.persistence)
	importer := services.NewImporter(workflowService)

	handlers := web.NewAPIHandlers(workflowService, runService, webhookService, scheduleService, importer, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Weaver API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Post("/import", handlers.ImportWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/run", handlers.StartRun)
	w.Get("/:id/runs", handlers.GetWorkflowRuns)
	w.Post("/:id/webhooks", handlers.CreateWebhook)
	w.Post("/:id/schedules", handlers.CreateSchedule)

	r := app.Group("/runs")
	r.Get("/:id", handlers.GetRun)
	r.Post("/:id/cancel", handlers.CancelRun)

	app.Post("/webhook/trigger/:webhookId", handlers.TriggerWebhook)

	app.Get("/schedules", handlers.GetSchedules)
	app.Get("/node-kinds", handlers.GetNodeKinds)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
