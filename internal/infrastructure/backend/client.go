// Package backend talks to the restaurant REST API that owns the menu,
// orders and user accounts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrUnreachable  = errors.New("backend unreachable")
	ErrBadStatus    = errors.New("backend returned an error status")
	ErrBadResponse  = errors.New("backend returned an unreadable response")
	ErrUnauthorized = errors.New("backend rejected credentials")
)

const maxErrorBody = 512

// TokenSource supplies the bearer token of the signed-in operator, if any.
type TokenSource func(ctx context.Context) string

// Client is a thin JSON client for the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewClient creates a client rooted at baseURL (for example
// "https://pos.example.com/api").
func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// StatusError carries the status code of a failed backend call.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", ErrBadStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out.
// It returns the response status code alongside any error.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return resp.StatusCode, nil
}

// asList accepts either a bare JSON array or an object wrapping the array
// under one of keys.
func asList(raw any, keys ...string) []map[string]any {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, k := range keys {
			if arr, ok := v[k].([]any); ok {
				items = arr
				break
			}
		}
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
