package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/metrics"
	"ClimbCoach/internal/ports"
)

const (
	maxPerPage      = 100
	maxBodyBytes    = 8 << 20
	totalPagesField = "X-WP-TotalPages"
	embedFields     = "author,wp:featuredmedia,wp:term"
)

// Client reads a WordPress REST API (wp-json/wp/v2). Every read defeats intermediate
// caches; failures are logged and reported as empty values.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.ContentProvider = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets one bounded by cfg.Timeout.
func NewClient(cfg config.WordPressConfig, client *http.Client, log *slog.Logger) *Client {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "ClimbCoach/1.0"
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: userAgent,
		client:    client,
		logger:    log,
		now:       time.Now,
	}
}

// fetchJSON performs a fresh GET of path and decodes the body into v.
func (c *Client) fetchJSON(ctx context.Context, endpoint, path string, query url.Values, v any) (http.Header, error) {
	target, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, 0, time.Since(started).Seconds())
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordProviderRequest(endpoint, resp.StatusCode, time.Since(started).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("wordpress %s returned %s", endpoint, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return resp.Header, nil
}

// buildURL joins path onto the API base and appends the cache-busting parameter.
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	parsed, err := url.Parse(c.baseURL + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url %s: %w", c.baseURL, err)
	}

	q := parsed.Query()
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	q.Set("cache_bust", strconv.FormatInt(c.now().UnixNano(), 10))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func parseTotalPages(h http.Header) int {
	raw := strings.TrimSpace(h.Get(totalPagesField))
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func clampPerPage(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxPerPage {
		return maxPerPage
	}
	return n
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Client) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
