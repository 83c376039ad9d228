package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rabota-collector/internal/logging"
	"rabota-collector/pkg/models"
	"rabota-collector/pkg/utils"
)

// LinkRegistry records every enumerated vacancy link for the period: a JSON
// array of {specialization, url} pairs plus a companion plain-text file of
// one URL per line. Writes are append-only in effect — existing entries are
// kept and new ones deduplicated against them by URL — and go through the
// same atomic replace discipline as the vacancy snapshot.
type LinkRegistry struct {
	jsonPath string
	txtPath  string
	logger   logging.Logger
}

// NewLinkRegistry creates a registry for the given output directory and
// MM.YYYY period token.
func NewLinkRegistry(outputDir, period string) *LinkRegistry {
	return &LinkRegistry{
		jsonPath: filepath.Join(outputDir, fmt.Sprintf("links_and_names_%s_rabota_by.json", period)),
		txtPath:  filepath.Join(outputDir, fmt.Sprintf("url_list_%s_RabotaBy.txt", period)),
		logger:   logging.GetGlobalLogger(),
	}
}

// Load reads the registry. Missing or corrupt files mean an empty registry.
func (r *LinkRegistry) Load() []models.VacancyLink {
	data, err := os.ReadFile(r.jsonPath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Failed to read link registry", map[string]interface{}{
				"path":  r.jsonPath,
				"error": err.Error(),
			})
		}
		return nil
	}

	var links []models.VacancyLink
	if err := json.Unmarshal(data, &links); err != nil {
		r.logger.Warn("Link registry is not valid JSON, starting fresh", map[string]interface{}{
			"path":  r.jsonPath,
			"error": err.Error(),
		})
		return nil
	}

	return links
}

// Merge appends the links not yet present (by URL) to the registry and
// persists both files. It returns the combined sequence and the number of
// links that were new.
func (r *LinkRegistry) Merge(links []models.VacancyLink) ([]models.VacancyLink, int, error) {
	existing := r.Load()

	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		seen[l.URL] = struct{}{}
	}

	combined := existing
	added := 0
	for _, l := range links {
		if _, ok := seen[l.URL]; ok {
			continue
		}
		seen[l.URL] = struct{}{}
		combined = append(combined, l)
		added++
	}

	data, err := json.MarshalIndent(combined, "", "    ")
	if err != nil {
		return existing, 0, utils.NewPersistError("failed to encode link registry", err)
	}

	if err := writeFileAtomic(r.jsonPath, data); err != nil {
		return existing, 0, utils.NewPersistError("failed to persist link registry", err)
	}

	var urls strings.Builder
	for _, l := range combined {
		urls.WriteString(l.URL)
		urls.WriteByte('\n')
	}

	if err := writeFileAtomic(r.txtPath, []byte(urls.String())); err != nil {
		return existing, 0, utils.NewPersistError("failed to persist URL list", err)
	}

	return combined, added, nil
}
