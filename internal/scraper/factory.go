package scraper

import (
	"fmt"

	"rabota-collector/internal/config"
	"rabota-collector/internal/scraper/engines/firecrawl"
	"rabota-collector/internal/scraper/engines/headed"
)

// NewFetcher creates the fetch engine selected in configuration.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	switch cfg.Scraper.Engine {
	case "headed":
		return headed.NewRodFetcher(cfg), nil
	case "firecrawl":
		f, err := firecrawl.NewFirecrawlFetcher(cfg)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported fetch engine: %s", cfg.Scraper.Engine)
	}
}

// SupportedEngines returns the list of engine names NewFetcher accepts.
func SupportedEngines() []string {
	return []string{"headed", "firecrawl"}
}
