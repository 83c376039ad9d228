package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rabota-collector/pkg/models"
)

func vacancy(url string) models.Vacancy {
	return models.Vacancy{
		RawVacancy: models.RawVacancy{
			Title: "Программист",
			URL:   url,
		},
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), "03.2026")

	assert.Empty(t, store.Load())

	records, err := store.Append(nil, vacancy("https://rabota.by/vacancy/1"))
	require.NoError(t, err)
	records, err = store.Append(records, vacancy("https://rabota.by/vacancy/2"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	loaded := store.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "https://rabota.by/vacancy/1", loaded[0].URL)
	assert.Equal(t, "https://rabota.by/vacancy/2", loaded[1].URL)
}

func TestSnapshotStorePeriodInPath(t *testing.T) {
	store := NewSnapshotStore("data", "03.2026")
	assert.Equal(t, filepath.Join("data", "data_finally_03.2026_Rabota_by.json"), store.Path())
}

func TestSnapshotStoreCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir, "03.2026")

	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, store.Load())
}

// An interrupted write leaves a stray temp file but must never touch the
// destination: reloading yields exactly the pre-write content.
func TestSnapshotStoreInterruptedWriteKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir, "03.2026")

	records, err := store.Append(nil, vacancy("https://rabota.by/vacancy/1"))
	require.NoError(t, err)

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// Simulate dying between the temp write and the rename.
	require.NoError(t, os.WriteFile(store.Path()+".tmp", []byte("[partial"), 0o644))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	loaded := store.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, records[0].URL, loaded[0].URL)
}

func TestKnownURLs(t *testing.T) {
	records := []models.Vacancy{
		vacancy("https://rabota.by/vacancy/1"),
		vacancy("https://rabota.by/vacancy/2"),
	}

	known := KnownURLs(records)

	assert.Len(t, known, 2)
	assert.Contains(t, known, "https://rabota.by/vacancy/1")
	assert.Contains(t, known, "https://rabota.by/vacancy/2")
	assert.NotContains(t, known, "https://rabota.by/vacancy/3")
}

// With a store holding {1,2} and an enumerated batch {1,2,3}, only 3 is
// pending; appending it and re-deriving the ledger leaves nothing pending.
func TestDedupResume(t *testing.T) {
	store := NewSnapshotStore(t.TempDir(), "03.2026")

	records, err := store.Append(nil, vacancy("https://rabota.by/vacancy/1"))
	require.NoError(t, err)
	records, err = store.Append(records, vacancy("https://rabota.by/vacancy/2"))
	require.NoError(t, err)

	enumerated := []string{
		"https://rabota.by/vacancy/1",
		"https://rabota.by/vacancy/2",
		"https://rabota.by/vacancy/3",
	}

	known := KnownURLs(store.Load())
	var pending []string
	for _, url := range enumerated {
		if _, ok := known[url]; !ok {
			pending = append(pending, url)
		}
	}
	require.Equal(t, []string{"https://rabota.by/vacancy/3"}, pending)

	_, err = store.Append(records, vacancy(pending[0]))
	require.NoError(t, err)

	known = KnownURLs(store.Load())
	for _, url := range enumerated {
		assert.Contains(t, known, url)
	}
}
