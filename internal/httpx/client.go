// Package httpx fetches JSON documents from the content tree with retry on
// transient upstream errors and base-URL resolution for subdirectory hosting.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// transient HTTP statuses worth retrying (CDN hiccups, brief gateway outages).
var transientStatuses = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

const defaultAttempts = 3

// backoffStep is the linear backoff unit: attempt n sleeps n*backoffStep.
const backoffStep = 250 * time.Millisecond

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.URL)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return transientStatuses[e.Status]
}

// Client fetches JSON relative to a base URL.
type Client struct {
	base     *url.URL
	client   *http.Client
	attempts int
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithAttempts sets the total attempt budget (minimum 1).
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.attempts = n
		}
	}
}

// NewClient creates a client resolving relative URLs against base.
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	c := &Client{
		base:     u,
		client:   http.DefaultClient,
		attempts: defaultAttempts,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve resolves an asset path against the client's base. Absolute URLs are
// left untouched; root-relative paths resolve against the base origin.
func (c *Client) Resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	if ref.IsAbs() {
		return path
	}
	return c.base.ResolveReference(ref).String()
}

// FetchJSON fetches the URL, decoding the response body into v. Transient
// upstream statuses (502, 503, 504) and transport errors are retried with
// linearly increasing backoff; every other HTTP error fails immediately with
// a *StatusError carrying the status and resolved URL.
func (c *Client) FetchJSON(ctx context.Context, path string, v any) error {
	resolved := c.Resolve(path)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, time.Duration(attempt-1)*backoffStep); err != nil {
				return err
			}
		}

		err := c.fetchOnce(ctx, resolved, v)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Transient() {
			return err
		}
	}
	return lastErr
}

func (c *Client) fetchOnce(ctx context.Context, resolved string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", resolved, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", resolved, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Status: res.StatusCode, URL: resolved}
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", resolved, err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
