package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voltaware/phantomwatt/internal/config"
	"github.com/voltaware/phantomwatt/internal/models"
)

// Client talks to the external phantom classification service. The service
// is treated as unreliable: every call is a single bounded attempt and any
// failure is reported as ErrServiceUnavailable.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
	threshold  float64
}

// NewClient creates a classification service client from configuration.
func NewClient(cfg *config.ClassifierConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimSuffix(cfg.ServiceURL, "/"),
		threshold: cfg.Threshold,
	}
}

// Predict submits a power series for classification and maps the response
// onto the canonical DetectionResult shape. No retries: a failed attempt
// immediately yields ErrServiceUnavailable so the caller can fall back.
func (c *Client) Predict(ctx context.Context, powerValues []float64) (models.DetectionResult, error) {
	req := PredictRequest{
		PowerValues: powerValues,
		Threshold:   c.threshold,
	}

	var response predictResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/predict", req, &response); err != nil {
		logrus.WithError(err).Warn("Classification service unavailable, caller will fall back")
		return models.DetectionResult{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return response.toDetectionResult(powerValues), nil
}

// HealthCheck probes the service's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var response HealthResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/health", nil, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return &response, nil
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.WithError(err).Debug("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return fmt.Errorf("classification service error (%d): %s", resp.StatusCode, errorResp.Error)
		}
		return fmt.Errorf("classification service error (%d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
