package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"mainstream-shop/internal/catalog"
	"mainstream-shop/internal/config"
	"mainstream-shop/internal/webform"
)

// Smoke-checks a deployed shop: health endpoint, video type catalog and
// optionally the contact form round trip. Targets come from the environment
// (CATALOG_URL, CATALOG_TIMEOUT); flags override.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FAIL config: %v\n", err)
		os.Exit(1)
	}

	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Shop base URL")
		catalogURL  = flag.String("catalog-url", cfg.Catalog.URL, "Video type catalog endpoint")
		timeout     = flag.Duration("timeout", cfg.Catalog.Timeout, "Per-request timeout")
		contactForm = flag.String("contact-form", "", "Contact form endpoint to smoke test (optional)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	failed := false

	if err := checkHealth(ctx, *baseURL, *timeout); err != nil {
		fmt.Printf("FAIL health: %v\n", err)
		failed = true
	} else {
		fmt.Println("ok   health")
	}

	client := catalog.NewClient(*catalogURL, *timeout)
	result := client.Fetch(ctx)
	if result.IsFallback() {
		fmt.Println("FAIL catalog: endpoint unreachable, fallback catalog in use")
		failed = true
	} else {
		fmt.Printf("ok   catalog (%d video types)\n", len(result.Types))
	}

	if *contactForm != "" {
		form := webform.NewClient(*timeout)
		res, err := form.Submit(ctx, *contactForm, url.Values{
			"email":   {"healthcheck@mainstream.local"},
			"message": {"Automated availability check"},
		})
		if err != nil || !res.Success {
			fmt.Printf("FAIL contact form: %s\n", res.UserMessage())
			failed = true
		} else {
			fmt.Println("ok   contact form")
		}
	}

	if failed {
		os.Exit(1)
	}
}

func checkHealth(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("reported status %q", body.Status)
	}
	return nil
}
