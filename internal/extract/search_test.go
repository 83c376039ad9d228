package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div data-qa="vacancy-serp__results">
  <a data-qa="serp-item__title" href="https://rabota.by/vacancy/1">Программист</a>
  <a data-qa="serp-item__title" href="https://rabota.by/vacancy/2">Программист 1С</a>
  <a data-qa="serp-item__title">без ссылки</a>
</div>
<a data-qa="serp-item__title" href="https://rabota.by/vacancy/999">вне блока результатов</a>
<div class="pager">
  <a data-qa="pager-page">1</a>
  <a data-qa="pager-page">2</a>
  <a data-qa="pager-page">7</a>
</div>
</body></html>`

func TestPageCount(t *testing.T) {
	assert.Equal(t, 7, PageCount(searchPage))
}

func TestPageCountNoPager(t *testing.T) {
	assert.Equal(t, 1, PageCount("<html><body><div>пусто</div></body></html>"))
}

func TestSearchResultLinks(t *testing.T) {
	links, err := SearchResultLinks(searchPage, "Программист")
	require.NoError(t, err)

	// Anchors without an href and anchors outside the results block are
	// ignored.
	require.Len(t, links, 2)
	assert.Equal(t, "https://rabota.by/vacancy/1", links[0].URL)
	assert.Equal(t, "https://rabota.by/vacancy/2", links[1].URL)
	assert.Equal(t, "Программист", links[0].Specialization)
}

func TestLoadSearchSources(t *testing.T) {
	dir := t.TempDir()
	linksFile := filepath.Join(dir, "search_links.txt")
	namesFile := filepath.Join(dir, "specializations.txt")

	require.NoError(t, os.WriteFile(linksFile, []byte(
		"# search urls\nhttps://rabota.by/search/vacancy?text=a\n\nhttps://rabota.by/search/vacancy?text=b\n"), 0o644))
	require.NoError(t, os.WriteFile(namesFile, []byte(
		"Программист\n# comment\nТестировщик\n"), 0o644))

	sources, err := LoadSearchSources(linksFile, namesFile)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "https://rabota.by/search/vacancy?text=a", sources[0].URL)
	assert.Equal(t, "Программист", sources[0].Specialization)
	assert.Equal(t, "Тестировщик", sources[1].Specialization)
}

func TestLoadSearchSourcesLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	linksFile := filepath.Join(dir, "search_links.txt")
	namesFile := filepath.Join(dir, "specializations.txt")

	require.NoError(t, os.WriteFile(linksFile, []byte("https://rabota.by/search/vacancy?text=a\n"), 0o644))
	require.NoError(t, os.WriteFile(namesFile, []byte("Программист\nТестировщик\n"), 0o644))

	_, err := LoadSearchSources(linksFile, namesFile)
	assert.Error(t, err)
}

func TestLoadSearchSourcesMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSearchSources(filepath.Join(dir, "absent.txt"), filepath.Join(dir, "absent2.txt"))
	assert.Error(t, err)
}
