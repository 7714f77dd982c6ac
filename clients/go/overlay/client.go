// Package overlay provides a client for the stream-overlay API, used
// by control-panel integrations that mint tokens, request lines and
// push events to a live overlay.
package overlay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a stream-overlay API client. Token is the capability
// token identifying the channel; it is required for everything except
// MintToken.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client for the given server and token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Tag        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("overlay: %s (status %d)", e.Tag, e.StatusCode)
}

// TaskOptions configures a generation request. Zero values mean
// server defaults.
type TaskOptions struct {
	Mode       string `json:"mode,omitempty"`
	TaskType   string `json:"taskType,omitempty"`
	StreamKind string `json:"streamKind,omitempty"`
	Lang       string `json:"lang,omitempty"`
}

// TaskResult is the server's answer to a ping or next request.
type TaskResult struct {
	OK       bool     `json:"ok"`
	Task     string   `json:"task,omitempty"`
	Name     string   `json:"name,omitempty"`
	Recent   []string `json:"recent,omitempty"`
	Mode     string   `json:"mode"`
	TaskType string   `json:"taskType"`
	Lang     string   `json:"lang"`
	Via      string   `json:"via,omitempty"`
}

// MintToken requests a signed token for a streamer name.
func (c *Client) MintToken(ctx context.Context, name string, ttl time.Duration) (string, error) {
	body := map[string]interface{}{"name": name}
	if ttl > 0 {
		body["ttlSec"] = int64(ttl / time.Second)
	}

	var resp struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/api/token", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Ping validates the token and returns the channel's recent lines.
func (c *Client) Ping(ctx context.Context) (*TaskResult, error) {
	var resp TaskResult
	err := c.post(ctx, "/api/task", map[string]interface{}{"kind": "ping"}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Next requests a freshly generated line for the channel.
func (c *Client) Next(ctx context.Context, opts TaskOptions) (*TaskResult, error) {
	body := map[string]interface{}{
		"kind":       "next",
		"mode":       opts.Mode,
		"taskType":   opts.TaskType,
		"streamKind": opts.StreamKind,
		"lang":       opts.Lang,
	}

	var resp TaskResult
	if err := c.post(ctx, "/api/task", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PublishMessage pushes a free-form message event onto the channel.
func (c *Client) PublishMessage(ctx context.Context, payload map[string]interface{}) error {
	body := map[string]interface{}{"type": "message", "payload": payload}
	return c.post(ctx, "/api/events", body, nil)
}

// ToggleAudience switches which audience the overlay addresses.
func (c *Client) ToggleAudience(ctx context.Context, audience string) error {
	body := map[string]interface{}{"audience": audience}
	return c.post(ctx, "/api/events/toggle", body, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &failure)
		if failure.Error == "" {
			failure.Error = "server_error"
		}
		return &APIError{StatusCode: resp.StatusCode, Tag: failure.Error}
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
