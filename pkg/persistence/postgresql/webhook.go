package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// WebhookByID retrieves a webhook by its externally visible id.
func (p *Persistence) WebhookByID(ctx context.Context, id string) (*models.Webhook, error) {
	var raw []byte

	err := p.db.QueryRowContext(ctx, `SELECT data FROM webhooks WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("WebhookByID", "webhook", id, persistence.ErrWebhookNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("WebhookByID", "webhook", id, err)
	}

	var webhook models.Webhook
	if err := json.Unmarshal(raw, &webhook); err != nil {
		return nil, persistence.NewStoreError("WebhookByID", "webhook", id, err)
	}

	return &webhook, nil
}

// SaveWebhook upserts a webhook.
func (p *Persistence) SaveWebhook(ctx context.Context, webhook *models.Webhook) error {
	webhook.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(webhook)
	if err != nil {
		return persistence.NewStoreError("SaveWebhook", "webhook", webhook.ID, err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO webhooks (id, workflow_id, data, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET workflow_id = $2, data = $3, updated_at = $4`,
		webhook.ID, webhook.WorkflowID, data, webhook.UpdatedAt)
	if err != nil {
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
