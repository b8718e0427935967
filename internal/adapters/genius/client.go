// Package genius probes candidate lyrics pages and reads their titles.
package genius

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/adapters/httpx"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
)

// DefaultUserAgent identifies the prober to the site.
const DefaultUserAgent = "lyricslink/1.0 (+https://github.com/ewilliams-labs/lyricslink)"

// maxDrain bounds how much of a probed body is read before the connection is
// released.
const maxDrain = 64 << 10

// Client checks lyrics page URLs.
type Client struct {
	http      *httpx.Client
	userAgent string
}

var (
	_ ports.Prober        = (*Client)(nil)
	_ ports.PageInspector = (*Client)(nil)
)

// NewClient constructs a Client. Transient failures (transport errors, 429
// and 5xx) are retried maxRetries times.
func NewClient(httpClient *http.Client, userAgent string, maxRetries int, backoff time.Duration, log *zap.SugaredLogger) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http:      httpx.New(httpClient, "genius adapter", maxRetries, backoff, log),
		userAgent: userAgent,
	}
}

// Probe fetches url and returns the final status code. A retryable status
// that persisted through every retry is returned as that status, not as an
// error. Errors are transport failures only.
func (c *Client) Probe(ctx context.Context, url string) (int, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return se.StatusCode, nil
		}
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	return resp.StatusCode, nil
}

// PageTitle returns the og:title of the page at url, falling back to the
// document <title>.
func (c *Client) PageTitle(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius adapter: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("genius adapter: parse page: %w", err)
	}

	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if og = normSpace(og); og != "" {
			return og, nil
		}
	}
	title := normSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", fmt.Errorf("genius adapter: page has no title")
	}
	return title, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("genius adapter: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	return c.http.Do(req)
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
