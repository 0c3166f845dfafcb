package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bluebin-id/bluebin-api/internal/config"
	"github.com/bluebin-id/bluebin-api/internal/model"
)

// Client calls the external route-optimization endpoint. The ordering work
// happens entirely on the remote side; a failed call is surfaced as a single
// error with no retry.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(cfg config.OptimizerConfig) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type optimizeRequest struct {
	TPS []model.RoutePoint `json:"tps"`
}

// Optimize submits the collection points and returns the segment list with
// aggregate distance and duration.
func (c *Client) Optimize(ctx context.Context, points []model.RoutePoint) (*model.RoutePlan, error) {
	body, err := json.Marshal(optimizeRequest{TPS: points})
	if err != nil {
		return nil, fmt.Errorf("encode optimize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build optimize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call optimizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("optimizer returned status %d", resp.StatusCode)
	}

	var plan model.RoutePlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode optimize response: %w", err)
	}
	return &plan, nil
}
