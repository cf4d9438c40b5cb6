// Package catalog fetches the purchasable video type catalog from the shop
// API, degrading to a fixed built-in catalog when the remote is unavailable.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mainstream-shop/internal/models"
)

// Source reports where a catalog result came from
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Result carries the fetched catalog together with its source. A failed
// fetch is not an error condition: the caller always receives a usable
// catalog.
type Result struct {
	Types  []models.VideoType
	Source Source
}

// IsFallback reports whether the built-in catalog was used
func (r Result) IsFallback() bool {
	return r.Source == SourceFallback
}

// Client fetches video types from the remote catalog endpoint. One request
// per Fetch call, no retries, no caching.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a catalog client for the given endpoint URL
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the catalog. Any transport error, non-2xx status or
// undecodable body yields the fallback catalog instead of an error.
func (c *Client) Fetch(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return c.fallback("building request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.fallback("requesting catalog", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Catalog endpoint returned %d, using fallback catalog", resp.StatusCode)
		return Result{Types: Fallback(), Source: SourceFallback}
	}

	var types []models.VideoType
	if err := json.NewDecoder(resp.Body).Decode(&types); err != nil {
		return c.fallback("decoding catalog", err)
	}

	return Result{Types: types, Source: SourceRemote}
}

func (c *Client) fallback(context string, err error) Result {
	log.Printf("Catalog fetch failed while %s: %v, using fallback catalog", context, err)
	return Result{Types: Fallback(), Source: SourceFallback}
}
