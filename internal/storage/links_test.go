package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rabota-collector/pkg/models"
)

func link(url string) models.VacancyLink {
	return models.VacancyLink{Specialization: "Программист", URL: url}
}

func TestLinkRegistryMerge(t *testing.T) {
	registry := NewLinkRegistry(t.TempDir(), "03.2026")

	combined, added, err := registry.Merge([]models.VacancyLink{
		link("https://rabota.by/vacancy/1"),
		link("https://rabota.by/vacancy/2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Len(t, combined, 2)

	// Merging an overlapping batch keeps existing entries and adds only
	// the genuinely new one.
	combined, added, err = registry.Merge([]models.VacancyLink{
		link("https://rabota.by/vacancy/2"),
		link("https://rabota.by/vacancy/3"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, combined, 3)
	assert.Equal(t, "https://rabota.by/vacancy/1", combined[0].URL)
	assert.Equal(t, "https://rabota.by/vacancy/3", combined[2].URL)

	loaded := registry.Load()
	assert.Equal(t, combined, loaded)
}

func TestLinkRegistryWritesURLList(t *testing.T) {
	registry := NewLinkRegistry(t.TempDir(), "03.2026")

	_, _, err := registry.Merge([]models.VacancyLink{
		link("https://rabota.by/vacancy/1"),
		link("https://rabota.by/vacancy/2"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(registry.txtPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, []string{
		"https://rabota.by/vacancy/1",
		"https://rabota.by/vacancy/2",
	}, lines)
}

func TestLinkRegistryCorruptFileStartsFresh(t *testing.T) {
	registry := NewLinkRegistry(t.TempDir(), "03.2026")

	require.NoError(t, os.WriteFile(registry.jsonPath, []byte("]["), 0o644))

	assert.Empty(t, registry.Load())
}
