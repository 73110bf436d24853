// Package sheet downloads the published CSV export of the respawn sheet.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is returned for any response other than 200 or 304.
var ErrUnexpectedStatus = errors.New("unexpected sheet response status")

// Client fetches the sheet with conditional requests. The validators and body
// of the last 200 response are kept in memory so a 304 can reuse the body.
type Client struct {
	http   *resty.Client
	url    string
	logger *slog.Logger

	mu           sync.Mutex
	etag         string
	lastModified string
	body         []byte
}

// NewClient creates a sheet client. retries is the number of extra attempts
// resty makes on transport errors within a single Fetch.
func NewClient(sheetURL string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "text/csv")
	return &Client{http: rc, url: sheetURL, logger: logger}
}

// Fetch returns the current CSV document.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.http.R().SetContext(ctx)
	if c.etag != "" {
		req.SetHeader("If-None-Match", c.etag)
	}
	if c.lastModified != "" {
		req.SetHeader("If-Modified-Since", c.lastModified)
	}

	c.logger.Debug("sheet fetch start", "url", redactURL(c.url))
	resp, err := req.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("sheet request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		c.etag = resp.Header().Get("ETag")
		c.lastModified = resp.Header().Get("Last-Modified")
		c.body = resp.Body()
		c.logger.Debug("sheet fetch success", "url", redactURL(c.url), "bytes", len(c.body))
		return c.body, nil
	case http.StatusNotModified:
		if c.body == nil {
			return nil, fmt.Errorf("%w: 304 without a cached body", ErrUnexpectedStatus)
		}
		c.logger.Debug("sheet not modified, reusing body", "url", redactURL(c.url))
		return c.body, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status())
	}
}

// redactURL drops the path and query, which carry the sheet's publish key.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
