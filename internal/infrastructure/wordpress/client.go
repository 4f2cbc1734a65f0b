package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seoaudit/internal/config"
	"seoaudit/internal/domain"
	"seoaudit/internal/ports"
)

const postsCollection = "wp-json/wp/v2/posts"

// Client fetches posts from a WordPress REST API and normalizes the
// SEO-plugin metadata variance into one view.
type Client struct {
	baseURL      string
	client       *http.Client
	probeRetries int
	probeBackoff time.Duration
	logger       *slog.Logger
}

var _ ports.ContentSource = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets the configured timeout.
func NewClient(cfg config.WordPressConfig, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		client:       client,
		probeRetries: cfg.ProbeRetries,
		probeBackoff: cfg.ProbeBackoff(),
		logger:       logger,
	}
}

// FetchArticle resolves the identifier into the right query form and returns
// the tagged raw payload plus the normalized SEO view. A failing connectivity
// probe retries the whole fetch after a fixed backoff, up to the configured
// ceiling, then surfaces the probe's error.
func (c *Client) FetchArticle(ctx context.Context, id domain.ArticleIdentifier) (domain.SourceRecord, error) {
	for attempt := 0; ; attempt++ {
		if err := c.probe(ctx); err != nil {
			if attempt >= c.probeRetries {
				return domain.SourceRecord{}, err
			}
			c.warn("connectivity probe failed, retrying",
				"attempt", attempt+1, "backoff", c.probeBackoff, "error", err)
			select {
			case <-time.After(c.probeBackoff):
			case <-ctx.Done():
				return domain.SourceRecord{}, ctx.Err()
			}
			continue
		}
		return c.fetch(ctx, id)
	}
}

// probe hits the API root expecting a 2xx JSON envelope.
func (c *Client) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wp-json/", nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: probe %s: %v", domain.ErrConnectivity, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: probe returned %s", domain.ErrGateway, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: probe returned %s", domain.ErrAPI, resp.Status)
	}

	var root struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		return fmt.Errorf("%w: probe body not JSON: %v", domain.ErrAPI, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, id domain.ArticleIdentifier) (domain.SourceRecord, error) {
	var payload map[string]any
	var err error

	switch id.Kind {
	case domain.IdentifierSlug:
		payload, err = c.fetchBySlug(ctx, id.Value)
	case domain.IdentifierID:
		payload, err = c.fetchByID(ctx, id.Value)
	default:
		err = fmt.Errorf("unknown identifier kind %q", id.Kind)
	}
	if err != nil {
		return domain.SourceRecord{}, err
	}

	return domain.SourceRecord{
		Raw: domain.RawRecord{Shape: domain.ShapeCMS, Fields: payload},
		SEO: normalizeSEO(payload),
	}, nil
}

// fetchBySlug issues a filtered list query and takes the first element.
func (c *Client) fetchBySlug(ctx context.Context, slug string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s?slug=%s", c.baseURL, postsCollection, url.QueryEscape(slug))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var posts []map[string]any
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("%w: decode post list: %v", domain.ErrAPI, err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: slug %q", domain.ErrNotFound, slug)
	}
	return posts[0], nil
}

func (c *Client) fetchByID(ctx context.Context, id string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, postsCollection, url.PathEscape(id))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var post map[string]any
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("%w: decode post: %v", domain.ErrAPI, err)
	}
	return post, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrConnectivity, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, endpoint)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrGateway, endpoint, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrAPI, endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
