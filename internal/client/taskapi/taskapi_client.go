package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TWRT/taskboard/internal/client"
	"github.com/TWRT/taskboard/internal/models"
)

var _ client.TaskGateway = (*Client)(nil)

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	params := url.Values{}
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.Priority != "" {
		params.Set("priority", filters.Priority)
	}
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}

	path := "/api/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := request[[]models.Task](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("get tasks: %w", ErrMissingPayload)
	}

	return *resp.Data, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	resp, err := request[models.Task](ctx, c, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("get task %s: %w", id, ErrMissingPayload)
	}

	return resp.Data, nil
}

func (c *Client) CreateTask(ctx context.Context, input models.TaskInput) (*models.Task, error) {
	resp, err := request[models.Task](ctx, c, http.MethodPost, "/api/tasks", input)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("create task: %w", ErrMissingPayload)
	}

	return resp.Data, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	resp, err := request[models.Task](ctx, c, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("update task %s: %w", id, ErrMissingPayload)
	}

	return resp.Data, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) GetStats(ctx context.Context) (*models.TaskStats, error) {
	resp, err := request[models.TaskStats](ctx, c, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("get stats: %w", ErrMissingPayload)
	}

	return resp.Data, nil
}

// HealthCheck reports whether the backend answered /health with a 2xx.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.send(ctx, http.MethodGet, "/health", nil)
	return err == nil
}

// send performs the call and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}

		var apiErr errorBody
		if err := json.Unmarshal(respBody, &apiErr); err == nil {
			httpErr.Message = apiErr.Message
		}

		return nil, httpErr
	}

	return respBody, nil
}

func request[T any](ctx context.Context, c *Client, method, path string, payload any) (*models.Envelope[T], error) {
	respBody, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var envelope models.Envelope[T]
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &envelope, nil
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &envelope, nil
}
