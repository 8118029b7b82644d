package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/poolserve/internal/models"
)

var ErrAdminUnavailable = errors.New("admin server unavailable")

// Client talks to the poolserve admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("failed to initialize admin client: base url is empty")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// PoolStatus fetches the scheduler status
// GET /api/v1/pool
func (c *Client) PoolStatus(ctx context.Context) (*models.PoolStatus, error) {
	var status models.PoolStatus
	if err := c.get(ctx, "/api/v1/pool", &status); err != nil {
		return nil, fmt.Errorf("failed to get pool status: %w", err)
	}
	return &status, nil
}

// Health checks that the admin server answers
// GET /api/v1/health
func (c *Client) Health(ctx context.Context) error {
	var health models.Health
	if err := c.get(ctx, "/api/v1/health", &health); err != nil {
		return fmt.Errorf("failed to get health: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrAdminUnavailable, health.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	zap.S().Named("client").Debugw("admin request", "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAdminUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return fmt.Errorf("%w: %s", ErrAdminUnavailable, resp.Status)
	default:
		return fmt.Errorf("unexpected response: %s", resp.Status)
	}
}
