// Package redis provides Redis-backed persistence. Entities are stored as
// JSON strings with secondary index sets for listing. Suited to deployments
// that already run Redis for the event transport and want a single store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

const (
	workflowKeyPrefix = "weaver:workflow:"
	workflowIndexKey  = "weaver:workflows"
	webhookKeyPrefix  = "weaver:webhook:"
	runKeyPrefix      = "weaver:run:"
	runIndexKeyPrefix = "weaver:runs:"
	scheduleKeyPrefix = "weaver:schedule:"
	scheduleIndexKey  = "weaver:schedules"
)

// Persistence implements the persistence.Persistence interface on Redis.
type Persistence struct {
	client *goredis.Client
}

// NewPersistence connects to Redis at the given URL.
func NewPersistence(ctx context.Context, redisURL string) (persistence.Persistence, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{client: client}, nil
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the client connection pool.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

func (p *Persistence) get(ctx context.Context, key string, out any) error {
	raw, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, out)
}

func (p *Persistence) set(ctx context.Context, key string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return p.client.Set(ctx, key, data, 0).Err()
}

// Workflows returns every stored workflow.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := p.client.SMembers(ctx, workflowIndexKey).Result()
	if err != nil {
		return nil, persistence.NewStoreError("Workflows", "workflow", "", err)
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := p.WorkflowByID(ctx, id)
		if err != nil {
			if persistence.IsWorkflowNotFound(err) {
				continue
			}

			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// WorkflowByID retrieves a workflow by its ID.
func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow

	if err := p.get(ctx, workflowKeyPrefix+id, &workflow); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewStoreError("WorkflowByID", "workflow", id, err)
	}

	return &workflow, nil
}

// SaveWorkflow stores a workflow and indexes its id.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if err := p.set(ctx, workflowKeyPrefix+workflow.ID, workflow); err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	if err := p.client.SAdd(ctx, workflowIndexKey, workflow.ID).Err(); err != nil {
		return persistence.NewStoreError("SaveWorkflow", "workflow", workflow.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow by its ID. Deleting a missing workflow is
// not an error.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	if err := p.client.Del(ctx, workflowKeyPrefix+id).Err(); err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	if err := p.client.SRem(ctx, workflowIndexKey, id).Err(); err != nil {
		return persistence.NewStoreError("DeleteWorkflow", "workflow", id, err)
	}

	return nil
}

// WebhookByID retrieves a webhook by its externally visible id.
func (p *Persistence) WebhookByID(ctx context.Context, id string) (*models.Webhook, error) {
	var webhook models.Webhook

	if err := p.get(ctx, webhookKeyPrefix+id, &webhook); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewStoreError("WebhookByID", "webhook", id, persistence.ErrWebhookNotFound)
		}

		return nil, persistence.NewStoreError("WebhookByID", "webhook", id, err)
	}

	return &webhook, nil
}

// SaveWebhook stores a webhook.
func (p *Persistence) SaveWebhook(ctx context.Context, webhook *models.Webhook) error {
	webhook.UpdatedAt = time.Now().UTC()

	if err := p.set(ctx, webhookKeyPrefix+webhook.ID, webhook); err != nil {
		return persistence.NewStoreError("SaveWebhook", "webhook", webhook.ID, err)
	}

	return nil
}

// RecordWebhookTrigger bumps the trigger counter and last trigger time.
func (p *Persistence) RecordWebhookTrigger(ctx context.Context, id string, at time.Time) error {
	webhook, err := p.WebhookByID(ctx, id)
	if err != nil {
		return persistence.NewStoreError("RecordWebhookTrigger", "webhook", id, err)
	}

	webhook.TriggerCount++
	webhook.LastTriggeredAt = &at

	return p.SaveWebhook(ctx, webhook)
}

// SaveRun stores a run record and indexes it under its workflow.
func (p *Persistence) SaveRun(ctx context.Context, run *models.Run) error {
	if err := p.set(ctx, runKeyPrefix+run.ID, run); err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	score := float64(run.StartedAt.UnixMilli())
	err := p.client.ZAdd(ctx, runIndexKeyPrefix+run.WorkflowID, goredis.Z{Score: score, Member: run.ID}).Err()
	if err != nil {
		return persistence.NewStoreError("SaveRun", "run", run.ID, err)
	}

	return nil
}

// RunByID retrieves a run record by its id.
func (p *Persistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run

	if err := p.get(ctx, runKeyPrefix+id, &run); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewStoreError("RunByID", "run", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewStoreError("RunByID", "run", id, err)
	}

	return &run, nil
}

// RunsByWorkflow returns the stored runs of one workflow, newest first.
func (p *Persistence) RunsByWorkflow(ctx context.Context, workflowID string) ([]*models.Run, error) {
	ids, err := p.client.ZRevRange(ctx, runIndexKeyPrefix+workflowID, 0, -1).Result()
	if err != nil {
		return nil, persistence.NewStoreError("RunsByWorkflow", "run", "", err)
	}

	runs := make([]*models.Run, 0, len(ids))

	for _, id := range ids {
		run, err := p.RunByID(ctx, id)
		if err != nil {
			if persistence.IsRunNotFound(err) {
				continue
			}

			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// Schedules returns every stored schedule.
func (p *Persistence) Schedules(ctx context.Context) ([]*models.Schedule, error) {
	ids, err := p.client.SMembers(ctx, scheduleIndexKey).Result()
	if err != nil {
		return nil, persistence.NewStoreError("Schedules", "schedule", "", err)
	}

	schedules := make([]*models.Schedule, 0, len(ids))

	for _, id := range ids {
		var schedule models.Schedule
		if err := p.get(ctx, scheduleKeyPrefix+id, &schedule); err != nil {
			if errors.Is(err, goredis.Nil) {
				continue
			}

			return nil, persistence.NewStoreError("Schedules", "schedule", id, err)
		}

		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// SaveSchedule stores a schedule after validating its cron expression.
func (p *Persistence) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	schedule.UpdatedAt = time.Now().UTC()

	if err := p.set(ctx, scheduleKeyPrefix+schedule.ID, schedule); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	if err := p.client.SAdd(ctx, scheduleIndexKey, schedule.ID).Err(); err != nil {
		return persistence.NewStoreError("SaveSchedule", "schedule", schedule.ID, err)
	}

	return nil
}
