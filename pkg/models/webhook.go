package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidWebhook is returned when webhook validation fails.
var ErrInvalidWebhook = errors.New("invalid webhook")

// Webhook maps an externally visible trigger id to a workflow. Signature
// verification is opt-in per webhook: requests are only rejected for a bad
// signature when a secret is configured.
type Webhook struct {
	ID         string `json:"id"          validate:"required"`
	WorkflowID string `json:"workflow_id" validate:"required"`

	// Secret is the per-webhook HMAC-SHA256 key. Empty means verification
	// is disabled for this webhook.
	Secret string `json:"secret,omitempty"`

	// IsActive gates triggering; inactive webhooks answer 403.
	IsActive bool `json:"is_active"`

	// TriggerCount and LastTriggeredAt are bumped fire-and-forget on every
	// accepted request.
	TriggerCount    int64      `json:"trigger_count"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWebhook creates an active webhook for the given workflow with a random id.
func NewWebhook(workflowID, secret string) (*Webhook, error) {
	if workflowID == "" {
		return nil, ErrInvalidWebhook
	}

	now := time.Now().UTC()

	return &Webhook{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Secret:     secret,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// VerifySignature checks a hex-encoded HMAC-SHA256 signature over the raw
// request body using this webhook's secret, in constant time.
func (w *Webhook) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(w.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// RequiresSignature reports whether requests to this webhook must be signed.
func (w *Webhook) RequiresSignature() bool {
	return w.Secret != ""
}
