package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rabota-collector/internal/logging"
	"rabota-collector/pkg/models"
	"rabota-collector/pkg/utils"
)

// SnapshotStore persists harmonized vacancies as one human-indented JSON
// array, keyed by the monthly period token so collection buckets by month.
// The file is the sole durable state of a run: it is rewritten wholesale
// through an atomic replace on every appended record, trading write
// amplification for losing at most the one in-flight item on a crash.
type SnapshotStore struct {
	path   string
	logger logging.Logger
}

// NewSnapshotStore creates a store for the given output directory and
// MM.YYYY period token.
func NewSnapshotStore(outputDir, period string) *SnapshotStore {
	return &SnapshotStore{
		path:   filepath.Join(outputDir, fmt.Sprintf("data_finally_%s_Rabota_by.json", period)),
		logger: logging.GetGlobalLogger(),
	}
}

// Path returns the destination file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the current snapshot. A missing file means no prior progress;
// a corrupt one is treated the same way, with a warning, so a damaged store
// never blocks a new run.
func (s *SnapshotStore) Load() []models.Vacancy {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read snapshot, starting fresh", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return nil
	}

	var records []models.Vacancy
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Snapshot is not valid JSON, starting fresh", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return nil
	}

	return records
}

// KnownURLs returns the set of source identifiers already present in the
// loaded records. Membership in this set is what dedup decides on.
func KnownURLs(records []models.Vacancy) map[string]struct{} {
	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		known[r.URL] = struct{}{}
	}
	return known
}

// Append appends rec to records and durably replaces the snapshot with the
// new sequence. The returned slice reflects the persisted state only when
// err is nil; a write failure is fatal for the run because the record's
// durability cannot be confirmed.
func (s *SnapshotStore) Append(records []models.Vacancy, rec models.Vacancy) ([]models.Vacancy, error) {
	updated := append(records, rec)

	data, err := json.MarshalIndent(updated, "", "    ")
	if err != nil {
		return records, utils.NewPersistError("failed to encode snapshot", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return records, utils.NewPersistError("failed to persist snapshot", err)
	}

	return updated, nil
}
