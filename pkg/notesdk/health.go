package notesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Livez checks whether the service is alive. Health probes respond outside
// the envelope, so the body is decoded directly.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz checks whether the service can reach its dependencies.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	status, payload, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, parseAPIError(status, payload)
	}

	var health HealthResponse
	if err := json.Unmarshal(payload, &health); err != nil {
		return nil, fmt.Errorf("notesdk: decode health response: %w", err)
	}

	return &health, nil
}
