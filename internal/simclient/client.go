// Package simclient is the minimal REST client for the simulation backend.
// Two operations, no retry or batching: callers see exactly one request per
// call and a typed error when the backend rejects it.
package simclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	statusPath = "/api/simulation/status"
	runsPath   = "/api/simulation/runs"

	maxResponseBytes = 256 * 1024
	defaultTimeout   = 10 * time.Second
)

// ErrBackendUnavailable marks transport-level failures (connection refused,
// timeouts) as opposed to explicit backend rejections.
var ErrBackendUnavailable = errors.New("simulation backend unavailable")

// APIError is an explicit rejection from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("simulation backend: %s (%s, http %d)", e.Message, e.Code, e.Status)
}

// Status describes the backend's current simulation state.
type Status struct {
	Running       bool      `json:"running"`
	ActiveRuns    int       `json:"active_runs"`
	QueuedRuns    int       `json:"queued_runs"`
	EngineVersion string    `json:"engine_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RunRequest asks the backend to start a simulation run.
type RunRequest struct {
	Scenario   string            `json:"scenario"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// RunAccepted is the backend's acknowledgement of a submitted run.
type RunAccepted struct {
	RunID    string    `json:"run_id"`
	Position int       `json:"position"`
	Accepted time.Time `json:"accepted_at"`
}

// Client talks to one simulation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL. A nil httpClient gets a
// default with a bounded timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}, nil
}

// Status fetches the backend's simulation status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, statusPath, nil, &out); err != nil {
		return Status{}, err
	}
	return out, nil
}

// SubmitRun submits a simulation run for execution.
func (c *Client) SubmitRun(ctx context.Context, req RunRequest) (RunAccepted, error) {
	if strings.TrimSpace(req.Scenario) == "" {
		return RunAccepted{}, &APIError{Status: http.StatusBadRequest, Code: "EMPTY_SCENARIO", Message: "scenario is required"}
	}
	var out RunAccepted
	if err := c.do(ctx, http.MethodPost, runsPath, req, &out); err != nil {
		return RunAccepted{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp.StatusCode, limited)
	}

	if err := json.NewDecoder(limited).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body io.Reader) error {
	apiErr := &APIError{Status: status}
	if err := json.NewDecoder(body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = fmt.Sprintf("HTTP_%d", status)
		apiErr.Message = strings.ToLower(http.StatusText(status))
	}
	return apiErr
}
