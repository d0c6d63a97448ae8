// Package httptool provides a ToolDispatcher backed by an HTTP tool gateway.
// Tools are addressed by name; the gateway resolves and invokes them.
package httptool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voltway/weaver/pkg/protocol"
)

const defaultTimeout = 60 * time.Second

type Dispatcher struct {
	baseURL string
	client  *http.Client
}

var _ protocol.ToolDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a tool gateway dispatcher rooted at the given base URL.
func NewDispatcher(baseURL string) *Dispatcher {
	return &Dispatcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// CallTool posts the input to the gateway's endpoint for the named tool and
// decodes the output map.
func (d *Dispatcher) CallTool(ctx context.Context, name string, input map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool input: %w", err)
	}

	endpoint := d.baseURL + "/v1/tools/" + url.PathEscape(name)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build tool request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tool %s request failed: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool %s response: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tool %s returned %d: %s", name, resp.StatusCode, string(body))
	}

	output := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &output); err != nil {
			return nil, fmt.Errorf("failed to decode tool %s response: %w", name, err)
		}
	}

	return output, nil
}
