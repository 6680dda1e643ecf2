// Package taskapi is the HTTP client for the Task API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/model"
)

const (
	tasksPath    = "/api/TaskItem"
	loginPath    = "/login"
	registerPath = "/register"

	defaultTimeout = 10 * time.Second
)

// TokenSource returns the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client = &http.Client{Timeout: timeout}
		}
	}
}

// New returns a client for the API at baseURL. tokens may be nil.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the part of the login answer the client keeps.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, credentials{Email: email, Password: password}, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return LoginResponse{}, fmt.Errorf("login: response has no access token")
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	if err := c.do(ctx, http.MethodPost, registerPath, credentials{Email: email, Password: password}, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// ListTasks returns the caller's tasks. A 404 is an empty list.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		if apperrors.IsNotFound(err) {
			return []model.Task{}, nil
		}
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, fields, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, fields model.TaskFields) error {
	fields.ID = id
	return c.do(ctx, http.MethodPut, taskPath(id), fields, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return tasksPath + "/" + strconv.FormatInt(id, 10)
}

// needsToken applies the bearer token to API routes only, never to the
// login and register endpoints.
func needsToken(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return false
	}
	return !strings.Contains(path, loginPath) && !strings.Contains(path, registerPath)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil && needsToken(path) {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope apperrors.Envelope
		_ = json.Unmarshal(respBody, &envelope)
		return apperrors.FromResponse(resp.StatusCode, envelope)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
