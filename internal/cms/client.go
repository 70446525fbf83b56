// Package cms provides the client for the remote content-management API.
//
// The CMS stores every field under a language-invariant wrapper
// ({"name":{"iv":"..."}}); this package flattens those shapes into the
// domain types. All failures, transport errors and non-2xx statuses
// alike, surface as NETWORK domain errors so callers can uniformly fall
// back to cache.
package cms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"encoding/json/v2"
	"golang.org/x/time/rate"

	"github.com/dharmaapp/dharma-core/internal/config"
	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
)

const defaultTimeout = 30 * time.Second

// Client provides access to the CMS content API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	assetsURL   string
	userAgent   string
	logger      *slog.Logger
}

// NewClient creates a new CMS client.
// Rate limited to roughly 5 requests per second with a small burst; the
// CMS is a shared instance and the app has no need to hammer it.
func NewClient(cfg config.CMSConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		baseURL:     cfg.BaseURL,
		assetsURL:   cfg.AssetsURL,
		userAgent:   cfg.UserAgent,
		logger:      logger,
	}
}

// AssetURL returns the absolute URL a media asset is served from.
func (c *Client) AssetURL(assetID string) string {
	return c.assetsURL + assetID
}

// invariant is the CMS's language-invariant field wrapper.
type invariant[T any] struct {
	IV T `json:"iv"`
}

// itemsResponse is the CMS list envelope.
type itemsResponse[T any] struct {
	Items []contentItem[T] `json:"items"`
}

// contentItem is one CMS content entry.
type contentItem[T any] struct {
	ID   string `json:"id"`
	Data T      `json:"data"`
}

// get performs a rate-limited GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return apperrors.WrapNetwork(err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperrors.WrapInternal(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.WrapNetwork(err, "cms request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return apperrors.Network(fmt.Sprintf("cms returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.WrapNetwork(err, "read response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.WrapNetwork(err, "decode response")
	}
	return nil
}

// endpoint joins the base URL with a path segment.
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// filterByCategory builds the list query for one category.
// categoryID "" requests the root listing, encoded as a literal null
// filter to match the CMS's content model.
func (c *Client) filterByCategory(path, categoryID string) string {
	var filter string
	if categoryID == "" {
		filter = "data/category/iv eq null"
	} else {
		filter = fmt.Sprintf("data/category/iv eq '%s'", categoryID)
	}
	q := url.Values{}
	q.Set("$filter", filter)
	q.Set("$orderby", "created asc")
	return c.endpoint(path) + "?" + q.Encode()
}
