// Package apiclient talks to the remote study API. Every call accepts a
// context so in-flight requests can be abandoned when the caller is torn
// down; a cancelled call surfaces as a cancellation, never as a failure.
//
// The engine trusts the API contract: responses are decoded, not validated.
package apiclient

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
)

// DefaultTimeout bounds a single request, not a whole fan-out.
const DefaultTimeout = 30 * time.Second

// Config holds client construction options.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a thin HTTP client for the study API.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	pageSize int
}

// New creates a Client. The base URL may carry a path prefix.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		pageSize: DefaultPageSize,
	}
}

// SetPageSize overrides the scheduler-state page size. Values below 1 keep
// the default.
func (c *Client) SetPageSize(n int) {
	if n >= 1 {
		c.pageSize = n
	}
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s returned %d", e.Path, e.Status)
}

// itemsEnvelope is the wrapper used by hierarchy reads. A missing items
// field is an empty result, never an error.
type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("api: build request %s: %w", path, err)
	}
	return c.do(req, path, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("api: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Cancellation stays recognisable through the url.Error wrap.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode, Path: path}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

// getItems fetches an {items: []} endpoint and unwraps the envelope.
func getItems[T any](ctx context.Context, c *Client, path, key, id string) ([]T, error) {
	q := url.Values{}
	if key != "" {
		q.Set(key, id)
	}
	var env itemsEnvelope[T]
	if err := c.get(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}
