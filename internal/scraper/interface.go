package scraper

import "context"

// Fetcher acquires the fully rendered content of a page. How the content is
// obtained — local browser, remote rendering API — is an engine detail; the
// pipeline only ever sees HTML or an error.
type Fetcher interface {
	// FetchPage navigates to the URL and returns the rendered page HTML
	FetchPage(ctx context.Context, url string) (string, error)

	// Cleanup releases any resources held by the fetcher
	Cleanup()

	// IsHealthy returns true if the fetcher is ready to serve requests
	IsHealthy() bool
}
