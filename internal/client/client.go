// Package client calls the rowplan HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/rowplan/internal/models"
)

// ErrGenerationFailed is returned when the server answers a generation
// request with anything but 200.
var ErrGenerationFailed = errors.New("workout generation failed")

// DefaultTimeout bounds one request, including the model call on the server.
const DefaultTimeout = 90 * time.Second

// Health mirrors the /api/health response.
type Health struct {
	Status            string `json:"status"`
	Provider          string `json:"provider"`
	ProviderAvailable bool   `json:"provider_available"`
}

// Client sends requests to the rowplan server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a client for serverURL. A non-positive timeout uses
// DefaultTimeout.
func NewClient(serverURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateWorkouts POSTs the full period list once. There is no retry.
func (c *Client) GenerateWorkouts(ctx context.Context, periods []models.TrainingPeriod) (models.WorkoutPlan, error) {
	if periods == nil {
		periods = []models.TrainingPeriod{}
	}
	data, err := json.Marshal(models.GenerateRequest{Periods: periods})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/generate-workouts", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e models.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("%w (status %d): %s", ErrGenerationFailed, resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("%w (status %d): %s", ErrGenerationFailed, resp.StatusCode, body)
	}

	var out models.GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if out.Workouts == nil {
		out.Workouts = models.WorkoutPlan{}
	}
	return out.Workouts, nil
}

// Generate implements the PlanSource used by the MCP tools.
func (c *Client) Generate(ctx context.Context, periods []models.TrainingPeriod) (models.WorkoutPlan, error) {
	return c.GenerateWorkouts(ctx, periods)
}

// Intensities retrieves the zone catalog from the server.
func (c *Client) Intensities(ctx context.Context) ([]models.IntensityInfo, error) {
	var out []models.IntensityInfo
	if err := c.getJSON(ctx, "/api/intensities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health retrieves the server status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.getJSON(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s request failed (status %d): %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
