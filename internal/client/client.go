// Package client is a typed Go client for the task tracker HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// ErrNotAuthenticated is returned before sending a request that needs a token
var ErrNotAuthenticated = errors.New("not logged in")

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with this HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one API server on behalf of one session
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for baseURL. A nil session starts logged out.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) (*dto.UserDTO, error) {
	var user dto.UserDTO
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, false, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and stores it in the session.
// The email is trimmed and lowercased first.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	body := map[string]string{
		"email":    strings.ToLower(strings.TrimSpace(email)),
		"password": password,
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, false, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.AccessToken, &resp.User)
	return &resp, nil
}

// Logout clears the session. Tokens are stateless, so the server is not called.
func (c *Client) Logout() {
	c.session.Clear()
}

// Me returns the current user and refreshes the cached copy
func (c *Client) Me(ctx context.Context) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, true, &user); err != nil {
		return nil, err
	}
	c.session.setUser(user)
	return &user, nil
}

// Users lists every user ordered by id
func (c *Client) Users(ctx context.Context) ([]dto.UserDTO, error) {
	var users []dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignableUsers lists every user except the current one
func (c *Client) AssignableUsers(ctx context.Context) ([]dto.UserDTO, error) {
	me := c.session.User()
	if me == nil {
		var err error
		if me, err = c.Me(ctx); err != nil {
			return nil, err
		}
	}

	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		if u.ID != me.ID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListTasksParams are the query parameters of GET /tasks. Zero values are omitted.
type ListTasksParams struct {
	Page       int
	Limit      int
	Title      string
	AuthorID   uint64
	AssigneeID uint64
	// DateFrom and DateTo accept RFC 3339 timestamps or YYYY-MM-DD dates
	DateFrom string
	DateTo   string
	SortBy   string
	Order    string
}

func (p ListTasksParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Title != "" {
		q.Set("title", p.Title)
	}
	if p.AuthorID != 0 {
		q.Set("authorId", strconv.FormatUint(p.AuthorID, 10))
	}
	if p.AssigneeID != 0 {
		q.Set("assigneeId", strconv.FormatUint(p.AssigneeID, 10))
	}
	if p.DateFrom != "" {
		q.Set("dateFrom", p.DateFrom)
	}
	if p.DateTo != "" {
		q.Set("dateTo", p.DateTo)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	return q
}

func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) (*dto.TaskListResponse, error) {
	var resp dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", params.values(), nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil, false, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTaskParams is the body of POST /tasks. A nil AssigneeID lets the server pick one.
type CreateTaskParams struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AssigneeID  *uint64 `json:"assigneeId,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, params CreateTaskParams) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, params, true, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskParams describes a partial update. Nil fields are left unchanged.
// ClearDescription sends an explicit null and wins over Description.
type UpdateTaskParams struct {
	Title            *string
	Description      *string
	ClearDescription bool
	AssigneeID       *uint64
}

func (p UpdateTaskParams) body() map[string]interface{} {
	body := map[string]interface{}{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.ClearDescription {
		body["description"] = nil
	} else if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.AssigneeID != nil {
		body["assigneeId"] = *p.AssigneeID
	}
	return body
}

func (c *Client) UpdateTask(ctx context.Context, id uint64, params UpdateTaskParams) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodPatch, taskPath(id), nil, params.body(), true, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task and returns it as it was before deletion
func (c *Client) DeleteTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, true, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SuggestTasks asks the server to draft tasks from free text. Nothing is saved.
func (c *Client) SuggestTasks(ctx context.Context, text string) ([]dto.TaskDraftDTO, error) {
	var resp dto.SuggestTasksResponse
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/tasks/suggest", nil, body, true, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func taskPath(id uint64) string {
	return "/tasks/" + strconv.FormatUint(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, authenticated bool, out interface{}) error {
	token := c.session.Token()
	if authenticated && token == "" {
		return ErrNotAuthenticated
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if res.StatusCode == http.StatusUnauthorized && token != "" {
			c.session.Clear()
		}
		return decodeAPIError(res.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var envelope apierrors.APIError
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Message == "" {
		message := strings.TrimSpace(string(data))
		if message == "" {
			message = http.StatusText(status)
		}
		return &APIError{Status: status, Message: message}
	}
	return &APIError{Status: status, Code: envelope.Code, Message: envelope.Message}
}
