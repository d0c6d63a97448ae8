package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewWebhook(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, webhook.ID)
	assert.Equal(t, "wf-1", webhook.WorkflowID)
	assert.True(t, webhook.IsActive)
	assert.True(t, webhook.RequiresSignature())
	assert.Zero(t, webhook.TriggerCount)
}

func TestNewWebhook_RequiresWorkflowID(t *testing.T) {
	_, err := NewWebhook("", "s3cret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWebhook)
}

func TestNewWebhook_WithoutSecret(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "")
	require.NoError(t, err)

	assert.False(t, webhook.RequiresSignature())
}

func TestWebhook_VerifySignature(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)

	body := []byte(`{"query":{"text":"hello"}}`)

	assert.True(t, webhook.VerifySignature(body, sign("s3cret", body)))
}

func TestWebhook_VerifySignature_RejectsMutatedBody(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)

	body := []byte(`{"query":{"text":"hello"}}`)
	signature := sign("s3cret", body)

	// Flipping a single byte anywhere in the body must invalidate the
	// signature.
	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01

		assert.False(t, webhook.VerifySignature(mutated, signature), "byte %d", i)
	}
}

func TestWebhook_VerifySignature_RejectsMutatedSignature(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)

	body := []byte(`{"query":{}}`)
	signature := sign("s3cret", body)

	mutated := []byte(signature)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}

	assert.False(t, webhook.VerifySignature(body, string(mutated)))
	assert.False(t, webhook.VerifySignature(body, ""))
	assert.False(t, webhook.VerifySignature(body, signature[:10]))
}

func TestWebhook_VerifySignature_WrongSecret(t *testing.T) {
	webhook, err := NewWebhook("wf-1", "s3cret")
	require.NoError(t, err)

	body := []byte(`{}`)

	assert.False(t, webhook.VerifySignature(body, sign("other", body)))
}
