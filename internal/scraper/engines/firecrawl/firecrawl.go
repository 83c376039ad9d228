package firecrawl

import (
	"context"
	"fmt"
	"time"

	"github.com/mendableai/firecrawl-go"

	"rabota-collector/internal/config"
	"rabota-collector/internal/logging"
)

// FirecrawlFetcher fetches rendered pages through the Firecrawl API, as an
// alternative to driving a local browser. Firecrawl handles rendering and
// anti-automation on its side; the fetcher only asks for the page HTML.
type FirecrawlFetcher struct {
	config *config.Config
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// NewFirecrawlFetcher creates a new Firecrawl fetcher instance
func NewFirecrawlFetcher(cfg *config.Config) (*FirecrawlFetcher, error) {
	logger := logging.GetGlobalLogger()

	app, err := firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firecrawl: %w", err)
	}

	logger.Info("Firecrawl fetcher initialized", map[string]interface{}{
		"api_url": cfg.Firecrawl.APIURL,
	})

	return &FirecrawlFetcher{
		config: cfg,
		app:    app,
		logger: logger,
	}, nil
}

// FetchPage scrapes the URL through Firecrawl and returns the page HTML.
// Transient API failures are retried with a linear backoff.
func (f *FirecrawlFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	params := &firecrawl.ScrapeParams{
		Formats: []string{"html"},
	}

	var result *firecrawl.FirecrawlDocument
	var err error

	for attempt := 1; attempt <= f.config.Firecrawl.MaxRetries; attempt++ {
		result, err = f.app.ScrapeURL(url, params)
		if err == nil {
			break
		}

		f.logger.Warn("Firecrawl scrape attempt failed", map[string]interface{}{
			"attempt": attempt,
			"url":     url,
			"error":   err.Error(),
		})

		if attempt < f.config.Firecrawl.MaxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	if err != nil {
		return "", fmt.Errorf("firecrawl scraping failed after %d attempts: %w", f.config.Firecrawl.MaxRetries, err)
	}

	if result == nil || result.HTML == "" {
		return "", fmt.Errorf("no HTML content in Firecrawl response for %s", url)
	}

	return result.HTML, nil
}

// Cleanup is a no-op: the Firecrawl SDK holds no local resources.
func (f *FirecrawlFetcher) Cleanup() {}

// IsHealthy reports whether the fetcher is usable.
func (f *FirecrawlFetcher) IsHealthy() bool {
	return f.app != nil
}
