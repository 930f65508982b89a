// Package imagesearch resolves a short text query to an illustration URL.
// Unsplash is used when an access key is configured; otherwise, and on any
// lookup failure, a deterministic placeholder derived from the query is
// returned so callers always get a usable URL.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"medilexica/internal/pkg/logx"
)

type Config struct {
	AccessKey string
	BaseURL   string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.unsplash.com"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search never returns an error for lookup failures; the placeholder URL is
// the degraded result. The error return is kept for interface compatibility.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.cfg.AccessKey == "" {
		return PlaceholderURL(query), nil
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&client_id=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(c.cfg.AccessKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PlaceholderURL(query), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Warnf("unsplash search failed: %v", err)
		return PlaceholderURL(query), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logx.Warnf("unsplash search status %d", resp.StatusCode)
		return PlaceholderURL(query), nil
	}

	var parsed struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logx.Warnf("unsplash decode failed: %v", err)
		return PlaceholderURL(query), nil
	}
	if len(parsed.Results) == 0 || parsed.Results[0].URLs.Regular == "" {
		return PlaceholderURL(query), nil
	}
	return parsed.Results[0].URLs.Regular, nil
}

// PlaceholderURL is deterministic for a given query.
func PlaceholderURL(query string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/600/400", url.QueryEscape(query))
}
