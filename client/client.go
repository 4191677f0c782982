package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"slate-api/domain"
)

// HTTPError is returned for responses with a non-success status code.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP error! status: %d", e.Status) }

// Client wraps http.Client with JSON helpers for the board API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new Client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{}}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type updateTaskRequest struct {
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type moveTaskRequest struct {
	SourceColumnID string `json:"sourceColumnId"`
	DestColumnID   string `json:"destColumnId"`
	SourceIndex    int    `json:"sourceIndex"`
	DestIndex      int    `json:"destIndex"`
}

// FetchBoard retrieves the full board document.
func (c *Client) FetchBoard(ctx context.Context) (*domain.Board, error) {
	var b domain.Board
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FetchHistory retrieves the bounded history, newest first.
func (c *Client) FetchHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var h []domain.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/api/history", nil, &h); err != nil {
		return nil, err
	}
	return h, nil
}

// CreateTask creates a task on the server and returns it.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*domain.Task, error) {
	var t domain.Task
	req := createTaskRequest{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask updates the provided fields of a task and returns the result.
func (c *Client) UpdateTask(ctx context.Context, id, title string, description *string) (*domain.Task, error) {
	var t domain.Task
	req := updateTaskRequest{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// MoveTask relocates a task between or within columns.
func (c *Client) MoveTask(ctx context.Context, id, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error {
	req := moveTaskRequest{
		SourceColumnID: sourceColumnID,
		DestColumnID:   destColumnID,
		SourceIndex:    sourceIndex,
		DestIndex:      destIndex,
	}
	return c.do(ctx, http.MethodPost, "/api/tasks/"+id+"/move", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		rd = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
