package harmonize

import (
	"fmt"
	"strings"

	"rabota-collector/internal/config"
	"rabota-collector/pkg/models"
)

// Engine applies every field harmonizer and the salary interpreter to one
// raw vacancy record, then enriches the result with derived flags. All
// derived fields are recomputed from the raw fields on every call, so
// harmonizing an already-harmonized record is a no-op as long as the raw
// fields are untouched.
type Engine struct {
	netFactor float64
	roundStep int
}

// NewEngine creates a harmonization engine with the configured salary
// constants.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		netFactor: cfg.Harmonize.NetAdjustmentFactor,
		roundStep: cfg.Harmonize.SalaryRoundingStep,
	}
}

// Harmonize derives the canonical fields for one raw record. The returned
// record is a strict superset: every raw field is carried unchanged.
func (e *Engine) Harmonize(raw models.RawVacancy) models.Vacancy {
	salary := ParseSalary(raw.SalaryRaw, e.netFactor)

	v := models.Vacancy{
		RawVacancy: raw,

		SpecialistLevel:        SpecialistLevel(raw.Title),
		ExperienceHarmonized:   Experience(raw.Experience),
		EmploymentType:         EmploymentType(raw.WorkSchedule),
		City:                   City(raw.Address),
		SpecializationCategory: Category(raw.Specialization),

		SalaryMin:  salary.Min,
		SalaryMax:  salary.Max,
		SalaryAvg:  AverageSalary(salary.Min, salary.Max, e.roundStep),
		Currency:   salary.Currency,
		SalaryType: salary.Type,
	}

	e.enrich(&v)
	return v
}

// enrich adds the analysis convenience fields. Runs unconditionally.
func (e *Engine) enrich(v *models.Vacancy) {
	company := v.Company
	if company == "" {
		company = models.SentinelUnknown
	}
	title := v.Title
	if title == "" {
		title = models.SentinelUnknown
	}
	v.CompanyVacancy = fmt.Sprintf("%s --- %s", company, title)

	v.HasSalary = v.SalaryMin != nil
	v.RemoteWork = strings.Contains(strings.ToLower(v.WorkFormat), "удален")

	if v.Description == models.SentinelUnknown {
		v.DescriptionLength = 0
	} else {
		v.DescriptionLength = len([]rune(v.Description))
	}

	if v.Skills == "" || v.Skills == models.SentinelUnknown {
		v.SkillsCount = 0
	} else {
		v.SkillsCount = len(strings.Split(v.Skills, ";"))
	}
}
