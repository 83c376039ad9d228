package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"rabota-collector/internal/config"
	"rabota-collector/internal/extract"
	"rabota-collector/internal/harmonize"
	"rabota-collector/internal/logging"
	"rabota-collector/internal/scraper"
	"rabota-collector/internal/storage"
	"rabota-collector/pkg/models"
	"rabota-collector/pkg/utils"
)

// Counts is what a finished (or interrupted) run reports.
type Counts struct {
	Processed      int `json:"processed"`
	AlreadyPresent int `json:"already_present"`
	Failed         int `json:"failed"`
}

// Runner drives one collection run: enumerate links, filter against the
// ledger, then fetch, extract, harmonize and persist items strictly one at
// a time. Serial processing is what keeps the whole-file atomic-replace
// persistence correct without locking.
type Runner struct {
	cfg       *config.Config
	fetcher   scraper.Fetcher
	extractor *extract.Extractor
	engine    *harmonize.Engine
	store     *storage.SnapshotStore
	registry  *storage.LinkRegistry

	itemLimiter *rate.Limiter
	pageLimiter *rate.Limiter
	validate    *validator.Validate
	logger      logging.Logger
}

// NewRunner wires a runner for the given period token (MM.YYYY).
func NewRunner(cfg *config.Config, fetcher scraper.Fetcher, period string) *Runner {
	return &Runner{
		cfg:         cfg,
		fetcher:     fetcher,
		extractor:   extract.NewExtractor(),
		engine:      harmonize.NewEngine(cfg),
		store:       storage.NewSnapshotStore(cfg.Collector.OutputDir, period),
		registry:    storage.NewLinkRegistry(cfg.Collector.OutputDir, period),
		itemLimiter: rate.NewLimiter(rate.Every(cfg.Collector.DelayBetweenItems), 1),
		pageLimiter: rate.NewLimiter(rate.Every(cfg.Collector.DelayBetweenPages), 1),
		validate:    validator.New(),
		logger:      logging.GetGlobalLogger().WithField("component", "pipeline"),
	}
}

// Store exposes the snapshot store path for reporting.
func (r *Runner) Store() *storage.SnapshotStore {
	return r.store
}

// Run executes the full collection pass. The returned error is non-nil only
// for fatal conditions (unusable enumeration, persistence failure) and for
// context cancellation; per-item failures surface in Counts.Failed. On any
// return, the snapshot holds every item that was confirmed persisted.
func (r *Runner) Run(ctx context.Context) (Counts, error) {
	var counts Counts

	// INIT: the ledger is derived from the snapshot, not stored separately.
	records := r.store.Load()
	known := storage.KnownURLs(records)

	r.logger.Info("Resuming from snapshot", map[string]interface{}{
		"path":    r.store.Path(),
		"records": len(records),
	})

	// ENUMERATE_LINKS
	links, err := r.enumerateLinks(ctx)
	if err != nil {
		return counts, err
	}

	combined, added, err := r.registry.Merge(links)
	if err != nil {
		return counts, err
	}

	r.logger.Info("Link enumeration complete", map[string]interface{}{
		"enumerated": len(links),
		"new":        added,
		"registry":   len(combined),
	})

	// FILTER_PENDING: set difference against the ledger, preserving
	// enumeration order, dropping duplicates within the batch itself.
	var pending []models.VacancyLink
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if _, ok := seen[link.URL]; ok {
			continue
		}
		seen[link.URL] = struct{}{}

		if _, ok := known[link.URL]; ok {
			counts.AlreadyPresent++
			continue
		}
		pending = append(pending, link)
	}

	r.logger.Info("Pending work computed", map[string]interface{}{
		"already_present": counts.AlreadyPresent,
		"pending":         len(pending),
	})

	// PROCESS_ITEM*
	for idx, link := range pending {
		if err := r.itemLimiter.Wait(ctx); err != nil {
			return counts, err
		}

		record, err := r.processItem(ctx, link)
		if err == nil {
			records, err = r.store.Append(records, record)
		}
		if err != nil {
			if ctx.Err() != nil {
				return counts, ctx.Err()
			}
			// Persistence failures are fatal: the record's durability
			// cannot be confirmed, so continuing would risk silent loss.
			// Fetch and extract failures only cost the one item.
			var cerr *utils.CollectorError
			if errors.As(err, &cerr) && cerr.Fatal() {
				return counts, err
			}
			counts.Failed++
			r.logger.Warn("Item failed, continuing", map[string]interface{}{
				"url":   link.URL,
				"error": err.Error(),
			})
			continue
		}
		counts.Processed++

		if every := r.cfg.Collector.ProgressEvery; every > 0 && ((idx+1)%every == 0 || idx+1 == len(pending)) {
			r.logger.Info("Progress", map[string]interface{}{
				"done":     idx + 1,
				"total":    len(pending),
				"in_store": len(records),
			})
		}
	}

	// DONE
	stats := ComputeStats(records)
	r.logger.Info("Collection run complete", map[string]interface{}{
		"processed":       counts.Processed,
		"already_present": counts.AlreadyPresent,
		"failed":          counts.Failed,
		"total_in_store":  stats.Total,
		"with_salary":     stats.WithSalary,
		"remote":          stats.RemoteWork,
	})

	return counts, nil
}

// enumerateLinks walks every configured search listing, page by page, and
// collects vacancy links tagged with their specialization.
func (r *Runner) enumerateLinks(ctx context.Context) ([]models.VacancyLink, error) {
	sources, err := extract.LoadSearchSources(r.cfg.Sources.SearchLinksFile, r.cfg.Sources.SpecializationsFile)
	if err != nil {
		return nil, err
	}

	var links []models.VacancyLink

	for i, source := range sources {
		r.logger.Info("Enumerating specialization", map[string]interface{}{
			"specialization": source.Specialization,
			"progress":       fmt.Sprintf("%d/%d", i+1, len(sources)),
		})

		if err := r.pageLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		first, err := r.fetcher.FetchPage(ctx, source.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("Failed to open search listing", map[string]interface{}{
				"url":   source.URL,
				"error": err.Error(),
			})
			continue
		}

		pages := extract.PageCount(first)

		for page := 0; page < pages; page++ {
			if err := r.pageLimiter.Wait(ctx); err != nil {
				return nil, err
			}

			pageURL := fmt.Sprintf("%s&page=%d", source.URL, page)
			html, err := r.fetcher.FetchPage(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger.Warn("Failed to fetch listing page", map[string]interface{}{
					"url":   pageURL,
					"error": err.Error(),
				})
				continue
			}

			pageLinks, err := extract.SearchResultLinks(html, source.Specialization)
			if err != nil {
				r.logger.Warn("Failed to parse listing page", map[string]interface{}{
					"url":   pageURL,
					"error": err.Error(),
				})
				continue
			}

			links = append(links, pageLinks...)
		}
	}

	if len(links) == 0 {
		return nil, utils.NewEnumerateError("no vacancy links could be enumerated", nil)
	}

	return links, nil
}

// processItem runs the fetch → extract → harmonize sequence for one link.
// Failures here are recoverable per item.
func (r *Runner) processItem(ctx context.Context, link models.VacancyLink) (models.Vacancy, error) {
	html, err := r.fetchWithRetries(ctx, link.URL)
	if err != nil {
		return models.Vacancy{}, utils.NewFetchError(fmt.Sprintf("failed to fetch %s", link.URL), err)
	}

	raw, err := r.extractor.VacancyFields(html, link.URL, time.Now())
	if err != nil {
		return models.Vacancy{}, err
	}
	raw.Specialization = link.Specialization

	if err := r.validate.Struct(raw); err != nil {
		return models.Vacancy{}, utils.NewExtractError("extracted record failed validation", err)
	}

	return r.engine.Harmonize(raw), nil
}

// fetchWithRetries retries a failed item fetch up to the configured count,
// waiting out the item delay between attempts. Cancellation short-circuits.
func (r *Runner) fetchWithRetries(ctx context.Context, url string) (string, error) {
	attempts := r.cfg.Scraper.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		html, err := r.fetcher.FetchPage(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < attempts {
			r.logger.Debug("Retrying fetch", map[string]interface{}{
				"url":     url,
				"attempt": attempt,
				"error":   err.Error(),
			})
			if err := r.itemLimiter.Wait(ctx); err != nil {
				return "", err
			}
		}
	}

	return "", lastErr
}
