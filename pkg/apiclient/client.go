package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"gofiber-todo/domain/dto"
)

// Client เรียก Todo API (/api/v1) ด้วย JWT
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New baseURL เช่น http://localhost:8080 (ไม่ต้องมี /api/v1)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError error envelope ที่ server ส่งกลับ
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// FieldError ข้อความ validation ของ field (เช่น "name", "categories.0")
func (e *APIError) FieldError(field string) string {
	return e.Details[field]
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ========== Auth ==========

func (c *Client) Register(ctx context.Context, req *dto.CreateUserRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login เก็บ token ไว้ใช้กับ request ถัดไป
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// ========== Tasks ==========

func (c *Client) Dashboard(ctx context.Context, filter string, priority int) (*dto.DashboardResponse, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	if priority > 0 {
		query.Set("priority", strconv.Itoa(priority))
	}

	path := "/dashboard"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out dto.DashboardResponse
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskResponse, error) {
	var out []dto.TaskResponse
	if _, err := c.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask คืน task ใหม่ + list ทั้งหมดของ user และ flash message
func (c *Client) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskMutationResponse, string, error) {
	return c.taskMutation(ctx, http.MethodPost, "/tasks", req)
}

func (c *Client) UpdateTask(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*dto.TaskMutationResponse, string, error) {
	return c.taskMutation(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), req)
}

func (c *Client) ToggleTask(ctx context.Context, id uint) (*dto.TaskMutationResponse, string, error) {
	return c.taskMutation(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d/toggle", id), nil)
}

func (c *Client) DeleteTask(ctx context.Context, id uint) (*dto.TaskMutationResponse, string, error) {
	return c.taskMutation(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil)
}

func (c *Client) taskMutation(ctx context.Context, method, path string, body any) (*dto.TaskMutationResponse, string, error) {
	var out dto.TaskMutationResponse
	message, err := c.do(ctx, method, path, body, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, message, nil
}

// ========== Categories ==========

// ListCategories หน้า categories (มี tasksCount)
func (c *Client) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var out dto.CategoryListResponse
	if _, err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, string, error) {
	var out dto.CategoryResponse
	message, err := c.do(ctx, http.MethodPost, "/categories", req, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, message, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, string, error) {
	var out dto.CategoryResponse
	message, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/categories/%d", id), req, &out)
	if err != nil {
		return nil, "", err
	}
	return &out, message, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) (string, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

// do ส่ง request แล้ว decode data ลง out คืน flash message
func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
	}

	if resp.StatusCode >= 400 || (len(raw) > 0 && !env.Success) {
		return "", toAPIError(resp.StatusCode, &env)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Message, nil
}

func toAPIError(status int, env *envelope) *APIError {
	apiErr := &APIError{Status: status}
	if env.Error == nil {
		return apiErr
	}

	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message

	// details เป็น map[string]string เฉพาะ validation error
	if len(env.Error.Details) > 0 {
		var details map[string]string
		if err := json.Unmarshal(env.Error.Details, &details); err == nil {
			apiErr.Details = details
		}
	}
	return apiErr
}
