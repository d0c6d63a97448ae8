package web

import "github.com/voltway/weaver/pkg/models"

// CreateWorkflowRequest is the payload for creating a workflow.
type CreateWorkflowRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description,omitempty"`
	Nodes       []*models.Node `json:"nodes"       validate:"required,min=1"`
	Edges       []*models.Edge `json:"edges"`
	Variables   map[string]any `json:"variables,omitempty"`
	Owner       string         `json:"owner"`
}

// StartRunRequest is the payload for launching an interactive run.
type StartRunRequest struct {
	Query     map[string]any `json:"query,omitempty"`
	TimeoutMs int64          `json:"timeout_ms,omitempty" validate:"min=0"`
}

// CreateWebhookRequest is the payload for registering a webhook trigger.
type CreateWebhookRequest struct {
	// Secret enables HMAC-SHA256 signature verification when set.
	Secret string `json:"secret,omitempty"`
}

// CreateScheduleRequest is the payload for registering a cron trigger.
type CreateScheduleRequest struct {
	CronExpression string         `json:"cron_expression" validate:"required"`
	Query          map[string]any `json:"query,omitempty"`
}
