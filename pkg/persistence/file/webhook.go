package file

import (
	"context"
	"os"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// WebhookByID retrieves a webhook by its externally visible id.
func (fp *Persistence) WebhookByID(_ context.Context, id string) (*models.Webhook, error) {
	var webhook models.Webhook

	if err := fp.readDocument(webhooksDir, id, &webhook); err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewStoreError("WebhookByID", "webhook", id, persistence.ErrWebhookNotFound)
		}

		return nil, persistence.NewStoreError("WebhookByID", "webhook", id, err)
	}

	return &webhook, nil
}

// SaveWebhook stores a webhook.
func (fp *Persistence) SaveWebhook(_ context.Context, webhook *models.Webhook) error {
	webhook.UpdatedAt = time.Now().UTC()

	if err := fp.writeDocument(webhooksDir, webhook.ID, webhook); err != nil {
		return persistence.NewStoreError("SaveWebhook", "webhook", webhook.ID, err)
	}

	return nil
}

// RecordWebhookTrigger bumps the trigger counter and last trigger time.
func (fp *Persistence) RecordWebhookTrigger(ctx context.Context, id string, at time.Time) error {
	webhook, err := fp.WebhookByID(ctx, id)
	if err != nil {
		return persistence.NewStoreError("RecordWebhookTrigger", "webhook", id, err)
	}

	webhook.TriggerCount++
	webhook.LastTriggeredAt = &at

	return fp.SaveWebhook(ctx, webhook)
}
