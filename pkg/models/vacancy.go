package models

// Sentinel values used by rabota.by pages for fields that are absent or
// failed to extract. They are converted to an empty representation at the
// harmonization boundary and never re-interpreted downstream.
const (
	SentinelUnknown  = "Не указано"
	SentinelError    = "Error"
	SentinelNoSalary = "Уровень дохода не указан"
)

// RawVacancy is the unprocessed field-to-text mapping for one posting, as
// produced by the field extractor. Any field may carry SentinelUnknown.
type RawVacancy struct {
	Title          string `json:"title"`
	SalaryRaw      string `json:"salary_raw"`
	Experience     string `json:"experience"`
	WorkSchedule   string `json:"work_schedule"`
	WorkFormat     string `json:"work_format"`
	Company        string `json:"company"`
	Address        string `json:"address"`
	Description    string `json:"description"`
	Skills         string `json:"skills"`
	URL            string `json:"url" validate:"required"`
	Specialization string `json:"specialization"`
	MonitoringDate string `json:"monitoring_date"`
	MonitoringTime string `json:"monitoring_time"`
}

// Vacancy is a harmonized vacancy record: the raw fields plus canonical
// derived fields and enrichment flags. It is a strict superset of RawVacancy
// so the persisted store keeps the original values for auditing.
type Vacancy struct {
	RawVacancy

	SpecialistLevel        string `json:"specialist_level"`
	ExperienceHarmonized   string `json:"experience_harmonized"`
	EmploymentType         string `json:"employment_type"`
	City                   string `json:"city"`
	SpecializationCategory string `json:"specialization_category"`

	SalaryMin  *int   `json:"salary_min"`
	SalaryMax  *int   `json:"salary_max"`
	SalaryAvg  *int   `json:"salary_avg"`
	Currency   string `json:"currency"`
	SalaryType string `json:"salary_type"`

	CompanyVacancy    string `json:"company_vacancy"`
	HasSalary         bool   `json:"has_salary"`
	RemoteWork        bool   `json:"remote_work"`
	DescriptionLength int    `json:"description_length"`
	SkillsCount       int    `json:"skills_count"`
}

// SalaryRange is the structured interpretation of a raw salary string.
// Min and Max are nil when the string carries no usable number; once the
// compensation type is known to be gross, both bounds are stored
// net-adjusted.
type SalaryRange struct {
	Min      *int   `json:"min"`
	Max      *int   `json:"max"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

// VacancyLink pairs an enumerated vacancy URL with the specialization of the
// search listing it was discovered on.
type VacancyLink struct {
	Specialization string `json:"specialization"`
	URL            string `json:"url" validate:"required"`
}
