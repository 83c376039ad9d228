package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rabota-collector/internal/config"
	"rabota-collector/internal/harmonize"
	"rabota-collector/pkg/utils"
)

// fakeFetcher serves canned HTML by URL. URLs absent from the map fail the
// fetch, which is how per-item failures are injected.
type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("fetch refused")
	}
	return html, nil
}

func (f *fakeFetcher) Cleanup()        {}
func (f *fakeFetcher) IsHealthy() bool { return true }

const testSearchURL = "https://rabota.by/search/vacancy?text=x"

func searchHTML(urls ...string) string {
	html := `<div data-qa="vacancy-serp__results">`
	for _, u := range urls {
		html += `<a data-qa="serp-item__title" href="` + u + `">v</a>`
	}
	return html + `</div>`
}

func vacancyHTML(title string) string {
	return `<h1>` + title + `</h1>
<div data-qa="vacancy-salary">от 2500 до 3000 Br на руки</div>
<span class="vacancy-company-name">ООО Пример</span>
<span data-qa="vacancy-view-raw-address">Минск, ул. Примерная 1</span>`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	linksFile := filepath.Join(dir, "search_links.txt")
	namesFile := filepath.Join(dir, "specializations.txt")
	require.NoError(t, os.WriteFile(linksFile, []byte(testSearchURL+"\n"), 0o644))
	require.NoError(t, os.WriteFile(namesFile, []byte("Программист\n"), 0o644))

	cfg := &config.Config{}
	cfg.Collector.OutputDir = filepath.Join(dir, "data")
	cfg.Collector.ProgressEvery = 1
	cfg.Sources.SearchLinksFile = linksFile
	cfg.Sources.SpecializationsFile = namesFile
	cfg.Harmonize.NetAdjustmentFactor = harmonize.DefaultNetAdjustmentFactor
	cfg.Harmonize.SalaryRoundingStep = harmonize.DefaultSalaryRoundingStep
	return cfg
}

func TestRunProcessesAllPendingItems(t *testing.T) {
	cfg := testConfig(t)

	listing := searchHTML("https://rabota.by/vacancy/1", "https://rabota.by/vacancy/2")
	fetcher := &fakeFetcher{pages: map[string]string{
		testSearchURL:                 listing,
		testSearchURL + "&page=0":     listing,
		"https://rabota.by/vacancy/1": vacancyHTML("Программист"),
		"https://rabota.by/vacancy/2": vacancyHTML("Тестировщик"),
	}}

	runner := NewRunner(cfg, fetcher, "03.2026")
	counts, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Processed)
	assert.Equal(t, 0, counts.AlreadyPresent)
	assert.Equal(t, 0, counts.Failed)

	records := runner.Store().Load()
	require.Len(t, records, 2)
	assert.Equal(t, "Программист", records[0].Title)
	assert.Equal(t, "Программист", records[0].Specialization)
	require.NotNil(t, records[0].SalaryAvg)
	assert.Equal(t, 2750, *records[0].SalaryAvg)
}

// A second run over the same listing finds everything already persisted and
// leaves the store unchanged.
func TestRunResumeSkipsKnownItems(t *testing.T) {
	cfg := testConfig(t)

	listing := searchHTML("https://rabota.by/vacancy/1", "https://rabota.by/vacancy/2")
	pages := map[string]string{
		testSearchURL:                 listing,
		testSearchURL + "&page=0":     listing,
		"https://rabota.by/vacancy/1": vacancyHTML("Программист"),
		"https://rabota.by/vacancy/2": vacancyHTML("Тестировщик"),
	}

	first := NewRunner(cfg, &fakeFetcher{pages: pages}, "03.2026")
	counts, err := first.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, counts.Processed)

	before, err := os.ReadFile(first.Store().Path())
	require.NoError(t, err)

	second := NewRunner(cfg, &fakeFetcher{pages: pages}, "03.2026")
	counts, err = second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, counts.Processed)
	assert.Equal(t, 2, counts.AlreadyPresent)
	assert.Equal(t, 0, counts.Failed)

	after, err := os.ReadFile(second.Store().Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// One unfetchable item is counted as failed; the rest of the batch still
// lands in the store, and the failed item stays pending for the next run.
func TestRunItemFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)

	listing := searchHTML("https://rabota.by/vacancy/1", "https://rabota.by/vacancy/2")
	fetcher := &fakeFetcher{pages: map[string]string{
		testSearchURL:                 listing,
		testSearchURL + "&page=0":     listing,
		"https://rabota.by/vacancy/2": vacancyHTML("Тестировщик"),
	}}

	runner := NewRunner(cfg, fetcher, "03.2026")
	counts, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Processed)
	assert.Equal(t, 1, counts.Failed)

	records := runner.Store().Load()
	require.Len(t, records, 1)
	assert.Equal(t, "https://rabota.by/vacancy/2", records[0].URL)
}

// A snapshot write failure aborts the run immediately instead of being
// absorbed into the failed count.
func TestRunPersistFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)

	listing := searchHTML("https://rabota.by/vacancy/1")
	fetcher := &fakeFetcher{pages: map[string]string{
		testSearchURL:                 listing,
		testSearchURL + "&page=0":     listing,
		"https://rabota.by/vacancy/1": vacancyHTML("Программист"),
	}}

	runner := NewRunner(cfg, fetcher, "03.2026")

	// Block the snapshot destination with a directory so the atomic
	// replace cannot land; the link registry stays writable.
	require.NoError(t, os.MkdirAll(runner.Store().Path(), 0o755))

	counts, err := runner.Run(context.Background())
	require.Error(t, err)

	var cerr *utils.CollectorError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.Fatal())

	assert.Equal(t, 0, counts.Processed)
	assert.Equal(t, 0, counts.Failed)
}

func TestRunNoLinksIsFatal(t *testing.T) {
	cfg := testConfig(t)

	// The listing fetch fails entirely, so enumeration produces nothing.
	runner := NewRunner(cfg, &fakeFetcher{pages: map[string]string{}}, "03.2026")
	_, err := runner.Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(cfg, &fakeFetcher{pages: map[string]string{}}, "03.2026")
	_, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDuplicateLinksInBatchProcessedOnce(t *testing.T) {
	cfg := testConfig(t)

	listing := searchHTML("https://rabota.by/vacancy/1", "https://rabota.by/vacancy/1")
	fetcher := &fakeFetcher{pages: map[string]string{
		testSearchURL:                 listing,
		testSearchURL + "&page=0":     listing,
		"https://rabota.by/vacancy/1": vacancyHTML("Программист"),
	}}

	runner := NewRunner(cfg, fetcher, "03.2026")
	counts, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Processed)
	require.Len(t, runner.Store().Load(), 1)
}
