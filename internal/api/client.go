package api

import (
	"bytes"
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

	"github.com/google/uuid"

	"github.com/krepsys/tui/internal/config"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

// APIClient handles HTTP communication with the Krepsys backend
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Options configures a client. Zero Timeout leaves the transport default.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a client from explicit options
func NewClient(opts Options) (*APIClient, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &APIClient{
		baseURL:    base,
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// NewClientFromConfig creates a client using the [api] section
func NewClientFromConfig(cfg *config.Config, logger *slog.Logger) (*APIClient, error) {
	return NewClient(Options{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.APITimeout(),
		Logger:  logger,
	})
}

// BaseURL returns the configured backend root
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// do sends one request under /api and decodes a JSON body into out when non-nil
func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	target := c.baseURL + "/api" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		return newAPIError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf(format, args...)
}

// ListFeeds returns every subscribed feed
func (c *APIClient) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	var feeds []model.Feed
	if err := c.do(ctx, http.MethodGet, "/feeds/", nil, nil, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// GetFeed fetches one feed
func (c *APIClient) GetFeed(ctx context.Context, id int64) (*model.Feed, error) {
	var feed model.Feed
	if err := c.do(ctx, http.MethodGet, idPath("/feeds/%s", id), nil, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// CreateFeed subscribes to a new feed
func (c *APIClient) CreateFeed(ctx context.Context, req model.FeedCreate) (*model.Feed, error) {
	var feed model.Feed
	if err := c.do(ctx, http.MethodPost, "/feeds/", nil, req, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// UpdateFeed renames or (de)activates a feed
func (c *APIClient) UpdateFeed(ctx context.Context, id int64, req model.FeedUpdate) (*model.Feed, error) {
	var feed model.Feed
	if err := c.do(ctx, http.MethodPatch, idPath("/feeds/%s", id), nil, req, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// DeleteFeed removes a feed and, server side, its articles
func (c *APIClient) DeleteFeed(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/feeds/%s", id), nil, nil, nil)
}

// RefreshFeed asks the backend to fetch a feed now
func (c *APIClient) RefreshFeed(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, idPath("/feeds/%s/refresh", id), nil, nil, nil)
}

// ListArticles returns articles matching f in the given order
func (c *APIClient) ListArticles(ctx context.Context, f filter.Filter, sort filter.Sort) ([]model.Article, error) {
	query := f.Values()
	if sort != "" {
		query.Set("sort", string(sort))
	}

	var articles []model.Article
	if err := c.do(ctx, http.MethodGet, "/articles/", query, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle fetches one article including tags and note
func (c *APIClient) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodGet, idPath("/articles/%s/", id), nil, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle applies a partial update
func (c *APIClient) UpdateArticle(ctx context.Context, id int64, req model.ArticleUpdate) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, http.MethodPatch, idPath("/articles/%s/", id), nil, req, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ListTags returns the global tag vocabulary
func (c *APIClient) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.do(ctx, http.MethodGet, "/articles/tags/all", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTag attaches a tag by name and returns the article's tags
func (c *APIClient) AddTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error) {
	var tags []model.Tag
	path := idPath("/articles/%s/tags", articleID)
	if err := c.do(ctx, http.MethodPost, path, nil, model.TagRequest{Name: name}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// RemoveTag detaches a tag and returns the article's remaining tags
func (c *APIClient) RemoveTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error) {
	var tags []model.Tag
	path := idPath("/articles/%s/tags/", articleID) + url.PathEscape(name)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListHighlights returns the highlights of one article
func (c *APIClient) ListHighlights(ctx context.Context, articleID int64) ([]model.Highlight, error) {
	var highlights []model.Highlight
	path := idPath("/articles/%s/highlights", articleID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &highlights); err != nil {
		return nil, err
	}
	return highlights, nil
}

// CreateHighlight stores a (text, color) pair for an article
func (c *APIClient) CreateHighlight(ctx context.Context, articleID int64, req model.HighlightCreate) (*model.Highlight, error) {
	var h model.Highlight
	path := idPath("/articles/%s/highlights", articleID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateHighlight changes a highlight's color or note
func (c *APIClient) UpdateHighlight(ctx context.Context, id int64, req model.HighlightUpdate) (*model.Highlight, error) {
	var h model.Highlight
	if err := c.do(ctx, http.MethodPatch, idPath("/articles/highlights/%s", id), nil, req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHighlight removes a highlight by id
func (c *APIClient) DeleteHighlight(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/articles/highlights/%s", id), nil, nil, nil)
}
