package httpapi

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

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ReviewBackend = (*Client)(nil)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests. Its Timeout is
	// left alone.
	HTTPClient *http.Client
}

// Client calls the backend's JSON endpoints.
type Client struct {
	client  *http.Client
	baseURL *url.URL
}

// splitCustomRequest is the /split_custom/{id} request body.
type splitCustomRequest struct {
	SplitTimeMS int64 `json:"split_time_ms"`
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{client: client, baseURL: base}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListAyahs fetches the full collection.
func (c *Client) ListAyahs(ctx context.Context) ([]domain.Ayah, error) {
	const op = "list ayahs"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("ayahs"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var items []domain.Ayah
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if items == nil {
		items = []domain.Ayah{}
	}
	for i := range items {
		c.resolveMediaURLs(&items[i])
	}

	logger.Debug("GET /ayahs returned %d items", len(items))
	return items, nil
}

// Split requests an automatic re-split of id.
func (c *Client) Split(ctx context.Context, id string) error {
	return c.post(ctx, "split "+id, c.endpoint("split", id), nil)
}

// SplitAt requests a re-split of id at splitTimeMS.
func (c *Client) SplitAt(ctx context.Context, id string, splitTimeMS int64) error {
	body, err := json.Marshal(splitCustomRequest{SplitTimeMS: splitTimeMS})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.post(ctx, "split "+id, c.endpoint("split_custom", id), body)
}

// Approve force-accepts id.
func (c *Client) Approve(ctx context.Context, id string) error {
	return c.post(ctx, "approve "+id, c.endpoint("approve", id), nil)
}

func (c *Client) post(ctx context.Context, op, endpoint string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	logger.Debug("POST %s: %s", req.URL.Path, resp.Status)
	return nil
}

// do sends req and converts transport failures and non-2xx statuses to
// domain errors. On success the caller owns the response body.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &domain.BackendError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...).String()
}

// resolveMediaURLs makes relative media URLs absolute against the base.
// The base is treated as a directory so a path prefix such as /api is kept.
func (c *Client) resolveMediaURLs(item *domain.Ayah) {
	dir := *c.baseURL
	dir.Path = strings.TrimSuffix(dir.Path, "/") + "/"
	dir.RawPath = ""
	for _, u := range []*string{item.CombinedURL, item.ArabicURL, item.EnglishURL} {
		if u == nil || *u == "" {
			continue
		}
		ref, err := url.Parse(*u)
		if err != nil || ref.IsAbs() {
			continue
		}
		*u = dir.ResolveReference(ref).String()
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = domain.DefaultBackendURL
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: backend url %q", domain.ErrInvalidInput, raw)
	}
	return u, nil
}
