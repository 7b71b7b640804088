package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// client is the shared HTTP plumbing for the vendor adapters. Every request
// is bounded by the configured timeout; a timeout surfaces as a transport
// error, which the settlement engine treats like any other provider failure.
type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func newClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *client {
	return &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *client) postJSON(ctx context.Context, path string, headers map[string]string, body interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req)
}

func (c *client) getJSON(ctx context.Context, path string, headers map[string]string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req)
}

func (c *client) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", req.URL.String()).Error("Provider request failed")
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.logger.WithFields(logrus.Fields{
			"url":         req.URL.String(),
			"status_code": resp.StatusCode,
		}).Error("Provider returned a non-JSON response")
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return decoded, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return decoded, nil
}
