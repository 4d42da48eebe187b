// Package client talks to the applications API over HTTP.
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
	"strings"
	"time"

	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
)

// ErrTransport wraps network failures where no HTTP response arrived.
var ErrTransport = errors.New("transport failure")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d - %s", e.StatusCode, e.Body)
}

// BackendError is a 2xx response whose body reported success: false.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the collection at base, e.g.
// "http://localhost:8080/applications".
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(id string) string {
	if id == "" {
		return c.base
	}
	return c.base + "/" + url.PathEscape(id)
}

// do sends body as JSON and decodes the reply into out. A reply carrying
// success: false becomes a *BackendError using fallback when it has no text.
func (c *Client) do(ctx context.Context, method, target string, body, out any, fallback string) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = fallback
		}
		return &BackendError{Message: msg}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// List is GET /applications.
func (c *Client) List(ctx context.Context) ([]models.Application, error) {
	var resp dtos.ListResponse
	if err := c.do(ctx, http.MethodGet, c.url(""), nil, &resp, "Failed to load applications"); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

// Create is POST /applications.
func (c *Client) Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error) {
	var resp dtos.ApplicationResponse
	if err := c.do(ctx, http.MethodPost, c.url(""), req, &resp, "Failed to create application"); err != nil {
		return nil, err
	}
	if resp.Application == nil {
		return nil, &BackendError{Message: "response has no application"}
	}
	return resp.Application, nil
}

// UpdateField is PUT /applications/{id} with {field: value}.
func (c *Client) UpdateField(ctx context.Context, id, field string, value any) error {
	body := map[string]any{field: value}
	if err := c.do(ctx, http.MethodPut, c.url(id), body, nil, "Failed to update "+field); err != nil {
		return fmt.Errorf("failed to update %s: %w", field, err)
	}
	return nil
}

// Action is PATCH /applications/{id} with {action, target?}.
func (c *Client) Action(ctx context.Context, id string, req dtos.ActionRequest) (*dtos.ActionResponse, error) {
	var resp dtos.ActionResponse
	if err := c.do(ctx, http.MethodPatch, c.url(id), req, &resp, "Failed to perform "+req.Action); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete is DELETE /applications/{id}. It returns the server's message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var resp dtos.StatusResponse
	if err := c.do(ctx, http.MethodDelete, c.url(id), nil, &resp, "Failed to delete application"); err != nil {
		return "", err
	}
	return resp.Message, nil
}
