package pipeline

import "rabota-collector/pkg/models"

// Stats summarizes the full snapshot at the end of a run.
type Stats struct {
	Total      int            `json:"total"`
	WithSalary int            `json:"with_salary"`
	RemoteWork int            `json:"remote_work"`
	ByLevel    map[string]int `json:"by_level"`
	ByCity     map[string]int `json:"by_city"`
	ByCategory map[string]int `json:"by_category"`
}

// ComputeStats tallies the harmonized fields across all stored records.
func ComputeStats(records []models.Vacancy) Stats {
	stats := Stats{
		Total:      len(records),
		ByLevel:    make(map[string]int),
		ByCity:     make(map[string]int),
		ByCategory: make(map[string]int),
	}

	for _, rec := range records {
		if rec.HasSalary {
			stats.WithSalary++
		}
		if rec.RemoteWork {
			stats.RemoteWork++
		}
		stats.ByLevel[rec.SpecialistLevel]++
		stats.ByCity[rec.City]++
		stats.ByCategory[rec.SpecializationCategory]++
	}

	return stats
}
