// Package client talks to a magnetgrid server.
//
// Idempotent calls (everything except AddField) are retried on network
// errors and 5xx responses with exponential backoff. API errors come back
// as *errors.Error carrying the server's code, so callers can use
// errors.Is(err, errors.ErrCodeNotFound) the same way they would against a
// local store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// Client is an HTTP client for the layout API.
type Client struct {
	base     string
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithHeader adds a header to every request, e.g. the tenant header.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithRetry sets the number of attempts and the first backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts, c.delay = attempts, delay
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid server url %q", baseURL)
	}
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		headers:  make(map[string]string),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type layoutBody struct {
	Layout document.Layout `json:"layout"`
}

// Health checks that the server is up and returns its version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := c.retry(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// GetLayout fetches the layout stored under key.
func (c *Client) GetLayout(ctx context.Context, key string) (grid.Layout, error) {
	var out layoutBody
	if err := c.retry(ctx, http.MethodGet, layoutPath(key), nil, &out); err != nil {
		return nil, err
	}
	return grid.Parse(out.Layout)
}

// PutLayout stores l under key and returns what the server saved. With
// normalize the server compacts the layout first.
func (c *Client) PutLayout(ctx context.Context, key string, l grid.Layout, normalize bool) (grid.Layout, error) {
	path := layoutPath(key)
	if normalize {
		path += "?normalize=true"
	}
	var out layoutBody
	if err := c.retry(ctx, http.MethodPut, path, layoutBody{Layout: grid.Export(l, key)}, &out); err != nil {
		return nil, err
	}
	return grid.Parse(out.Layout)
}

// DeleteLayout removes the layout stored under key.
func (c *Client) DeleteLayout(ctx context.Context, key string) error {
	return c.retry(ctx, http.MethodDelete, layoutPath(key), nil, nil)
}

// AddField places a new field in the stored layout. It is not retried.
func (c *Client) AddField(ctx context.Context, key, id string, width float64) (grid.Placement, grid.Layout, error) {
	in := struct {
		ID    string  `json:"id,omitempty"`
		Width float64 `json:"width,omitempty"`
	}{id, width}
	var out struct {
		Field  document.Field  `json:"field"`
		Layout document.Layout `json:"layout"`
	}
	if err := c.do(ctx, http.MethodPost, layoutPath(key)+"/fields", in, &out); err != nil {
		return grid.Placement{}, nil, unwrapRetryable(err)
	}
	l, err := grid.Parse(out.Layout)
	if err != nil {
		return grid.Placement{}, nil, err
	}
	f := out.Field
	return grid.Placement{ID: f.ID, Width: f.Width, Position: grid.Position{X: f.X, Y: f.Y}}, l, nil
}

// PlanResult is the server's answer to a plan request.
type PlanResult struct {
	Strategy string          `json:"strategy"`
	Row      int             `json:"row"`
	Column   int             `json:"column"`
	Width    float64         `json:"width"`
	Clamped  bool            `json:"clamped"`
	Layout   document.Layout `json:"layout"`
}

// Plan asks where field would land if dropped on row.
func (c *Client) Plan(ctx context.Context, l grid.Layout, field string, width float64, row int) (*PlanResult, error) {
	in := struct {
		Layout document.Layout `json:"layout"`
		Field  string          `json:"field"`
		Width  float64         `json:"width,omitempty"`
		Row    int             `json:"row"`
	}{grid.Export(l, ""), field, width, row}
	var out PlanResult
	if err := c.retry(ctx, http.MethodPost, "/plan", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compact returns the normalized form of l.
func (c *Client) Compact(ctx context.Context, l grid.Layout) (grid.Layout, error) {
	var out layoutBody
	if err := c.retry(ctx, http.MethodPost, "/compact", layoutBody{Layout: grid.Export(l, "")}, &out); err != nil {
		return nil, err
	}
	return grid.Parse(out.Layout)
}

// Validation is the server's verdict on a layout.
type Validation struct {
	Valid       bool        `json:"valid"`
	Overlapping [][2]string `json:"overlapping"`
	Problem     string      `json:"problem,omitempty"`
}

// Validate checks l on the server.
func (c *Client) Validate(ctx context.Context, l grid.Layout) (*Validation, error) {
	var out Validation
	if err := c.retry(ctx, http.MethodPost, "/validate", layoutBody{Layout: grid.Export(l, "")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func unwrapRetryable(err error) error {
	var re *cache.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}

func layoutPath(key string) string {
	return "/layouts/" + url.PathEscape(key)
}

func (c *Client) retry(ctx context.Context, method, path string, in, out any) error {
	return cache.Retry(ctx, c.attempts, c.delay, func() error {
		return c.do(ctx, method, path, in, out)
	})
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode response")
	}
	return nil
}

// checkStatus turns an error response into an *errors.Error with the
// server's code. 5xx responses are retryable.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	var e struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	code := errors.ErrCodeNetwork
	msg := fmt.Sprintf("status %d", resp.StatusCode)
	if json.Unmarshal(data, &e) == nil && e.Error.Code != "" {
		code = errors.Code(e.Error.Code)
		msg = e.Error.Message
	}
	err := errors.New(code, "%s", msg)
	if resp.StatusCode >= 500 {
		return cache.Retryable(err)
	}
	return err
}
