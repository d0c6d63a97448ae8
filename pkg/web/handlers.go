// Package web provides the HTTP surface: workflow management, run triggering
// with live event streaming, template import, and the webhook trigger
// protocol.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/registry"
	"github.com/voltway/weaver/pkg/services"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

type APIHandlers struct {
	workflowService *services.Workflow
	runService      *services.Runs
	webhookService  *services.Webhooks
	scheduleService *services.Schedules
	importer        *services.Importer
	validator       *validator.Validate
	registry        *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	runService *services.Runs,
	webhookService *services.Webhooks,
	scheduleService *services.Schedules,
	importer *services.Importer,
	validator *validator.Validate,
	reg *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		runService:      runService,
		webhookService:  webhookService,
		scheduleService: scheduleService,
		importer:        importer,
		validator:       validator,
		registry:        reg,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Weaver API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Weaver API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.WorkflowByID(c.Context(), id)
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

	workflow := &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		Variables:   req.Variables,
		Owner:       req.Owner,
	}

	created, err := h.workflowService.CreateWorkflow(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.workflowService.DeleteWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetNodeKinds lists the registered node kinds with their config schemas, for
// authoring clients.
func (h *APIHandlers) GetNodeKinds(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"node_kinds": h.registry.RegisteredKinds()})
}

// StartRun launches an interactive run and streams its lifecycle events back
// as newline-delimited JSON until WORKFLOW_END.
func (h *APIHandlers) StartRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req StartRunRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	handle, err := h.runService.StartRun(c.Context(), services.StartRunRequest{
		WorkflowID:  id,
		TriggeredBy: "api",
		Query:       req.Query,
		Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return streamRunEvents(c, handle)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.runService.RunByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	runs, err := h.runService.RunsByWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"runs": runs})
}

func (h *APIHandlers) CancelRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	if err := h.runService.CancelRun(c.Context(), id); err != nil {
		if services.IsNotFoundError(err) {
			return notFound(c, "run not found")
		}

		return conflict(c, err.Error())
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// ImportWorkflow imports a workflow template, regenerating every node and
// edge id.
func (h *APIHandlers) ImportWorkflow(c fiber.Ctx) error {
	var template services.WorkflowTemplate
	if err := c.Bind().JSON(&template); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.importer.Import(c.Context(), &template, c.Query("owner"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) CreateWebhook(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateWebhookRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	webhook, err := h.webhookService.CreateWebhook(c.Context(), id, req.Secret)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(webhook)
}

// CreateSchedule registers a cron trigger for a workflow. The scheduler
// process picks the record up on its next start.
func (h *APIHandlers) CreateSchedule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req CreateScheduleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Context(), id, req.CronExpression, req.Query)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (h *APIHandlers) GetSchedules(c fiber.Ctx) error {
	schedules, err := h.scheduleService.ListSchedules(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"schedules": schedules})
}

// TriggerWebhook implements the webhook trigger protocol: the request body
// becomes the run's query payload and the response streams the run's events.
// Signature verification only applies to webhooks configured with a secret.
func (h *APIHandlers) TriggerWebhook(c fiber.Ctx) error {
	webhookID := c.Params("webhookId")
	if webhookID == "" {
		return badRequest(c, "Webhook ID is required")
	}

	webhook, err := h.webhookService.WebhookByID(c.Context(), webhookID)
	if err != nil {
		return handleServiceError(c, err)
	}

	if !webhook.IsActive {
		return forbidden(c, "webhook is disabled")
	}

	body := c.Body()

	if signature := c.Get(SignatureHeader); signature != "" && webhook.RequiresSignature() {
		if !webhook.VerifySignature(body, signature) {
			return unauthorized(c, "signature verification failed")
		}
	}

	query := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &query); err != nil {
			return badRequest(c, "Invalid JSON body")
		}
	}

	go h.webhookService.RecordTrigger(webhook.ID)

	handle, err := h.runService.StartRun(c.Context(), services.StartRunRequest{
		WorkflowID:     webhook.WorkflowID,
		TriggeredBy:    "webhook:" + webhook.ID,
		Query:          query,
		DisableHistory: true,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return streamRunEvents(c, handle)
}
