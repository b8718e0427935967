// Package httpx wraps an *http.Client with retries on transient failures.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
	DefaultBackoff    = 500 * time.Millisecond
)

// StatusError is returned when every attempt ended in a retryable status.
type StatusError struct {
	StatusCode int
	Attempts   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: status %d", e.Attempts, e.StatusCode)
}

// Client retries requests on transport errors, 429 and 5xx responses with
// exponential backoff, honouring Retry-After.
type Client struct {
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
	log         *zap.SugaredLogger
	name        string
}

// New wraps httpClient. name prefixes log lines and errors ("genius adapter").
func New(httpClient *http.Client, name string, maxRetries int, baseBackoff time.Duration, log *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient:  httpClient,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		log:         log,
		name:        name,
	}
}

// outcome is the result of one send.
type outcome struct {
	resp   *http.Response
	err    error
	status int
	// retry marks a transport error, 429 or 5xx; after is the server's
	// Retry-After hint, zero when absent.
	retry bool
	after time.Duration
}

// Do sends req, retrying as configured. On success the caller owns the
// response body. A request whose body cannot be rewound is sent once.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	tries := c.maxRetries
	if tries <= 0 {
		tries = DefaultMaxRetries
	}
	if req.Body != nil && req.GetBody == nil {
		tries = 1
	}

	for n := 1; ; n++ {
		if n > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("%s: rewind request body: %w", c.name, err)
			}
			req.Body = body
		}

		o, err := c.send(req)
		if err != nil {
			return nil, err
		}
		if !o.retry {
			return o.resp, nil
		}
		c.log.Warnw("transient failure", "adapter", c.name, "try", n, "of", tries, "status", o.status, "err", o.err)

		if n >= tries {
			if o.err != nil {
				return nil, fmt.Errorf("%s: request failed after %d attempts: %w", c.name, tries, o.err)
			}
			return nil, fmt.Errorf("%s: %w", c.name, &StatusError{StatusCode: o.status, Attempts: tries})
		}
		if err := wait(req.Context(), c.delay(n, o.after)); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", c.name, err)
		}
	}
}

// send issues req once. The returned error is set only when the request's
// context is done; other failures are reported in the outcome.
func (c *Client) send(req *http.Request) (outcome, error) {
	ctx := req.Context()
	if err := ctx.Err(); err != nil {
		return outcome{}, fmt.Errorf("%s: request canceled: %w", c.name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome{}, fmt.Errorf("%s: request canceled: %w", c.name, ctxErr)
		}
		return outcome{err: err, retry: true}, nil
	}

	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < http.StatusInternalServerError {
		return outcome{resp: resp, status: resp.StatusCode}, nil
	}
	o := outcome{status: resp.StatusCode, retry: true, after: parseRetryAfter(resp)}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
	return o, nil
}

// delay is the pause after the n-th failed try: the Retry-After hint when
// the server sent one, else the base backoff doubled per try.
func (c *Client) delay(n int, after time.Duration) time.Duration {
	if after > 0 {
		return after
	}
	base := c.baseBackoff
	if base <= 0 {
		base = DefaultBackoff
	}
	return base << (n - 1)
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. Absent, malformed or past values yield zero.
func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if when, err := http.ParseTime(v); err == nil {
		return max(time.Until(when), 0)
	}
	return 0
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
