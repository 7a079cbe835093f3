// Package activityclient provides a client for the activities sign-up API.
//
// The server exposes the activity collection and two actions per activity:
//
//	GET  /activities
//	POST /activities/{activity}/signup?email={email}
//	POST /activities/{activity}/unregister?email={email}
//
// Example usage:
//
//	client, err := activityclient.New("http://localhost:8000")
//	activities, err := client.Activities(ctx)
//	msg, err := client.Signup(ctx, "Chess Club", "a@example.com")
package activityclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrTransport is returned when a request fails before any response arrives.
	ErrTransport = errors.New("activities server unreachable")
	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response from activities server")
)

// APIError is an application-level failure: the server answered with a
// non-2xx status. Detail is the server-provided explanation and may be empty.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("activities server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("activities server returned status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to an activities server.
type Client struct {
	Host    string
	Logger  *slog.Logger
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.Logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed with
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Client for the given host. The host must include the scheme,
// e.g. "http://localhost:8000".
func New(host string, opts ...Option) (*Client, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL %q: %w", host, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("host URL must include scheme and host: %q", host)
	}

	c := &Client{
		Host:   strings.TrimRight(host, "/"),
		Logger: slog.Default(),
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c, nil
}

// Activities fetches the activity collection in server order.
func (c *Client) Activities(ctx context.Context) (Activities, error) {
	body, status, err := c.do(ctx, http.MethodGet, c.Host+"/activities")
	if err != nil {
		return nil, err
	}

	if status/100 != 2 {
		var resp actionResponse
		_ = json.Unmarshal(body, &resp)
		return nil, &APIError{StatusCode: status, Detail: resp.detail()}
	}

	var activities Activities
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("%w: decoding activities: %v", ErrMalformedResponse, err)
	}
	return activities, nil
}

// Signup adds email to the named activity and returns the server's message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.action(ctx, "signup", activity, email)
}

// Unregister removes email from the named activity and returns the server's message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.action(ctx, "unregister", activity, email)
}

func (c *Client) action(ctx context.Context, action, activity, email string) (string, error) {
	target := ActionURL(c.Host, action, activity, email)

	body, status, err := c.do(ctx, http.MethodPost, target)
	if err != nil {
		return "", err
	}

	var resp actionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding %s response: %v", ErrMalformedResponse, action, err)
	}
	if status/100 != 2 {
		return "", &APIError{StatusCode: status, Detail: resp.detail()}
	}
	return resp.Message, nil
}

// ActionURL builds the target of a signup or unregister call. The activity is
// escaped as a path segment and the email as a query value.
func ActionURL(host, action, activity, email string) string {
	return fmt.Sprintf("%s/activities/%s/%s?email=%s",
		strings.TrimRight(host, "/"),
		url.PathEscape(activity),
		action,
		url.QueryEscape(email),
	)
}

// do performs the request and returns the body and status code. Only
// transport failures are returned as errors; status handling is up to the caller.
func (c *Client) do(ctx context.Context, method, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.Logger.Debug("activities request", "method", method, "url", target)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}

	c.Logger.Debug("activities response", "method", method, "url", target, "status", resp.StatusCode)
	return body, resp.StatusCode, nil
}
