// Package delivery pushes processed posts to an external publishing endpoint.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/weavehq/weave/internal/pipeline"
)

// Config holds delivery endpoint settings.
type Config struct {
	Enabled bool              `yaml:"enabled" json:"enabled"`
	URL     string            `yaml:"url" json:"url"`
	Method  string            `yaml:"method" json:"method"`
	Token   string            `yaml:"token" json:"token"`
	Headers map[string]string `yaml:"headers" json:"headers"`
	Timeout time.Duration     `yaml:"timeout" json:"timeout"`
}

// payload is the JSON body sent for each processed post.
type payload struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Client delivers processed posts over HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a delivery client. Method defaults to POST, timeout to 15s.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Deliver pushes a single processed result to the configured endpoint.
// Returns nil without sending anything when delivery is disabled.
func (c *Client) Deliver(ctx context.Context, res *pipeline.Result) error {
	if !c.cfg.Enabled {
		return nil
	}

	body, err := json.Marshal(payload{
		Title:       res.Title,
		Slug:        res.Slug,
		Content:     res.HTML,
		Description: res.Description,
		Tags:        res.Tags,
	})
	if err != nil {
		return fmt.Errorf("delivery: marshal %s: %w", res.Slug, err)
	}

	req, err := http.NewRequestWithContext(ctx, c.cfg.Method, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("delivery: build request for %s: %w", res.Slug, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delivery: send %s: %w", res.Slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("delivery: send %s: unexpected status %d", res.Slug, resp.StatusCode)
	}
	return nil
}

// DeliverAll pushes each result in order, logging failures and continuing.
// Returns the number of successful deliveries.
func (c *Client) DeliverAll(ctx context.Context, results []*pipeline.Result) int {
	if !c.cfg.Enabled {
		return 0
	}

	sent := 0
	for _, res := range results {
		if res.Skipped {
			continue
		}
		if err := c.Deliver(ctx, res); err != nil {
			c.logger.Error("delivery failed", "slug", res.Slug, "error", err)
			continue
		}
		c.logger.Info("delivered post", "slug", res.Slug)
		sent++
	}
	return sent
}
