// Package rest is the JSON-over-HTTP client shared by the external data sources.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	maxAttempts    = 3
	retryBackoff   = 500 * time.Millisecond
)

// ErrSourceUnavailable is matched by every SourceError.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError reports a failed request to an external source.
type SourceError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status code: %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit spaces requests to at most rps per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithQueryParam adds a query parameter to every request.
func WithQueryParam(key, value string) Option {
	return func(c *Client) { c.params[key] = value }
}

// WithRepeatedParams sends comma separated values of the named params as repeated keys.
// Other params are sent as a single value.
func WithRepeatedParams(keys ...string) Option {
	return func(c *Client) {
		for _, k := range keys {
			c.repeated[k] = true
		}
	}
}

func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

type Client struct {
	source     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	headers    map[string]string
	params     map[string]string
	repeated   map[string]bool
	backoff    time.Duration
}

func NewClient(source, baseURL string, opts ...Option) *Client {
	c := &Client{
		source:     source,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers:    make(map[string]string),
		params:     make(map[string]string),
		repeated:   make(map[string]bool),
		backoff:    retryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Source() string { return c.source }

// Get fetches baseURL+endpoint and decodes the JSON body into result. Server errors are
// retried.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, result any) error {
	body, err := c.GetRaw(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("error decoding %s response: %w", c.source, err)
	}
	return nil
}

// GetRaw is Get without decoding.
func (c *Client) GetRaw(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, &SourceError{Source: c.source, Err: ctx.Err()}
			case <-time.After(c.backoff * time.Duration(attempt-1)):
			}
		}

		body, retry, err := c.do(ctx, endpoint, params)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, params map[string]string) ([]byte, bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, &SourceError{Source: c.source, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range c.params {
		q.Set(key, value)
	}
	for key, value := range params {
		if !c.repeated[key] {
			q.Set(key, value)
			continue
		}
		for _, v := range strings.Split(value, ",") {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, &SourceError{Source: c.source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode >= 500, &SourceError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &SourceError{Source: c.source, Err: err}
	}
	return body, false, nil
}

// IsNotFound reports whether err is a 404 from the source.
func IsNotFound(err error) bool {
	var se *SourceError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
