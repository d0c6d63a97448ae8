// Package httpmodel provides a ModelClient backed by an HTTP model gateway.
// The gateway owns provider credentials and model routing; this client only
// speaks the gateway's generate endpoint.
package httpmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voltway/weaver/pkg/protocol"
)

const defaultTimeout = 120 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a model gateway client rooted at the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Generate posts the request to the gateway's generate endpoint and decodes
// the result. Non-2xx responses surface as errors with the gateway's body
// included for diagnosis.
func (c *Client) Generate(ctx context.Context, req protocol.GenerateRequest) (*protocol.GenerateResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("model gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var result protocol.GenerateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode model gateway response: %w", err)
	}

	return &result, nil
}
