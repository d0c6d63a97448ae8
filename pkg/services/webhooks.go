package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/voltway/weaver/pkg/models"
	"github.com/voltway/weaver/pkg/persistence"
)

// Webhooks manages webhook trigger records.
type Webhooks struct {
	logger      *slog.Logger
	persistence persistence.Persistence
}

func NewWebhooks(logger *slog.Logger, p persistence.Persistence) *Webhooks {
	return &Webhooks{
		logger:      logger.With("module", "webhooks"),
		persistence: p,
	}
}

// WebhookByID retrieves a webhook record.
func (s *Webhooks) WebhookByID(ctx context.Context, id string) (*models.Webhook, error) {
	return s.persistence.WebhookByID(ctx, id)
}

// CreateWebhook registers a new webhook for a workflow.
func (s *Webhooks) CreateWebhook(ctx context.Context, workflowID, secret string) (*models.Webhook, error) {
	if _, err := s.persistence.WorkflowByID(ctx, workflowID); err != nil {
		return nil, err
	}

	webhook, err := models.NewWebhook(workflowID, secret)
	if err != nil {
		return nil, &ServiceError{Op: "CreateWebhook", Err: ErrInvalidRequest, Message: err.Error()}
	}

	if err := s.persistence.SaveWebhook(ctx, webhook); err != nil {
		return nil, err
	}

	return webhook, nil
}

// RecordTrigger bumps the webhook's trigger counter fire-and-forget. A storage
// failure is logged and never affects the triggered run.
func (s *Webhooks) RecordTrigger(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.persistence.RecordWebhookTrigger(ctx, id, time.Now().UTC()); err != nil {
		s.logger.Warn("Failed to record webhook trigger", "webhook_id", id, "error", err)
	}
}
