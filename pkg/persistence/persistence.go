// Package persistence provides the data storage abstraction for workflows,
// webhooks, run history and schedules.
package persistence

import (
	"context"
	"time"

	"github.com/voltway/weaver/pkg/models"
)

type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error

	WebhookByID(ctx context.Context, id string) (*models.Webhook, error)
	SaveWebhook(ctx context.Context, webhook *models.Webhook) error
	// RecordWebhookTrigger bumps the webhook's trigger counter and last
	// trigger time. Failures here never fail the triggered run.
	RecordWebhookTrigger(ctx context.Context, id string, at time.Time) error

	SaveRun(ctx context.Context, run *models.Run) error
	RunByID(ctx context.Context, id string) (*models.Run, error)
	RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error)

	Schedules(ctx context.Context) ([]*models.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *models.Schedule) error

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
