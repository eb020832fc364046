package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"imageforge/internal/domain"
)

// APIError is a boundary-reported failure, as opposed to a transport error
// reaching the boundary at all.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client is the thin HTTP client for the boundary service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL. A nil httpClient gets a
// default with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Generate submits a generation request and returns the created job.
func (c *Client) Generate(ctx context.Context, params domain.GenerationParams) (domain.Job, error) {
	return c.postJob(ctx, "/generate", params)
}

// Edit submits an edit request and returns the created job.
func (c *Client) Edit(ctx context.Context, params domain.EditParams) (domain.Job, error) {
	return c.postJob(ctx, "/edit", params)
}

func (c *Client) postJob(ctx context.Context, path string, payload any) (domain.Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Job{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.Job{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Job{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Job{}, c.apiError(resp)
	}

	var job domain.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// Job fetches the current snapshot of a job.
func (c *Client) Job(ctx context.Context, jobID string) (domain.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/job/"+jobID, nil)
	if err != nil {
		return domain.Job{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Job{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Job{}, c.apiError(resp)
	}

	var job domain.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// Cancel requests cancellation and reports whether the boundary confirmed it.
func (c *Client) Cancel(ctx context.Context, jobID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/job/"+jobID, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, c.apiError(resp)
	}

	var confirmation struct {
		Cancelled bool `json:"cancelled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return false, err
	}
	return confirmation.Cancelled, nil
}

func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
