package harmonize

import (
	"strings"

	"rabota-collector/pkg/models"
)

// Canonical specialist-level labels, highest rank first.
const (
	LevelDirector   = "Директор"
	LevelManager    = "Руководитель"
	LevelChief      = "Главный специалист"
	LevelLead       = "Ведущий специалист"
	LevelSpecialist = "Специалист/Рабочий"
	LevelTrainee    = "Стажер/Помощник"
)

// Canonical experience buckets.
const (
	ExperienceNone   = "Без опыта"
	ExperienceJunior = "1-3 года"
	ExperienceMiddle = "3-6 лет"
	ExperienceSenior = "Более 6 лет"
)

// Canonical employment types.
const (
	EmploymentFull       = "Полная занятость"
	EmploymentPart       = "Частичная занятость"
	EmploymentProject    = "Проектная работа"
	EmploymentInternship = "Стажировка"
	EmploymentVolunteer  = "Волонтерство"
)

// Canonical work schedules.
const (
	ScheduleFullDay  = "Полный день"
	ScheduleShift    = "Сменный график"
	ScheduleFlexible = "Гибкий график"
	ScheduleRemote   = "Удаленная работа"
)

// rule pairs a keyword group with the label it resolves to. Rule lists are
// evaluated top to bottom and the first group with any keyword present as a
// substring wins, so earlier groups shadow later ones.
type rule struct {
	keywords []string
	label    string
}

func firstMatch(rules []rule, lower string) (string, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label, true
			}
		}
	}
	return "", false
}

// missing reports whether a raw field value carries no usable content. The
// source marks absent fields with literal sentinels; they are recognized
// here, once, and nowhere downstream.
func missing(s string) bool {
	return s == "" || s == models.SentinelUnknown || s == models.SentinelError
}

var specialistLevelRules = []rule{
	{[]string{"директор", "генеральный", "исполнительный"}, LevelDirector},
	{[]string{"начальник", "руководитель", "заведующий"}, LevelManager},
	{[]string{"главный"}, LevelChief},
	{[]string{"ведущий", "старший", "senior"}, LevelLead},
	{[]string{"стажер", "помощник", "младший", "junior", "ассистент"}, LevelTrainee},
}

// SpecialistLevel classifies a vacancy title into one of the fixed
// specialist-rank categories. Titles that hit no keyword group are the
// baseline worker category, not "unspecified".
func SpecialistLevel(title string) string {
	if missing(title) {
		return models.SentinelUnknown
	}

	if label, ok := firstMatch(specialistLevelRules, strings.ToLower(title)); ok {
		return label
	}
	return LevelSpecialist
}

// Experience buckets a free-text experience requirement. The digit test
// deliberately mirrors the source system: any of «1», «2», «3» anywhere in
// the string selects the junior bucket unless «от 3» is present, so digits
// from unrelated context can steer the result. Reproduced for output parity
// with previously collected data.
func Experience(experience string) string {
	if missing(experience) {
		return models.SentinelUnknown
	}

	lower := strings.ToLower(experience)

	if strings.Contains(lower, "без опыта") || strings.Contains(lower, "не требуется") {
		return ExperienceNone
	}

	if strings.ContainsAny(lower, "123") && !strings.Contains(lower, "от 3") {
		return ExperienceJunior
	}

	if strings.Contains(lower, "от 3") || strings.Contains(lower, "3–6") || strings.Contains(lower, "3-6") {
		return ExperienceMiddle
	}

	if strings.Contains(lower, "более 6") || strings.Contains(lower, "от 6") {
		return ExperienceSenior
	}

	return experience
}

var employmentRules = []rule{
	{[]string{"полная", "полный день"}, EmploymentFull},
	{[]string{"частичная", "неполный", "по совместительству"}, EmploymentPart},
	{[]string{"проект"}, EmploymentProject},
	{[]string{"стажировка"}, EmploymentInternship},
	{[]string{"волонтер"}, EmploymentVolunteer},
}

// EmploymentType maps an employment description onto the fixed taxonomy,
// passing unrecognized values through unchanged.
func EmploymentType(employment string) string {
	if missing(employment) {
		return models.SentinelUnknown
	}

	if label, ok := firstMatch(employmentRules, strings.ToLower(employment)); ok {
		return label
	}
	return employment
}

var scheduleRules = []rule{
	{[]string{"полный день"}, ScheduleFullDay},
	{[]string{"сменный", "посменно"}, ScheduleShift},
	{[]string{"гибкий", "свободный"}, ScheduleFlexible},
	{[]string{"удален", "remote"}, ScheduleRemote},
}

// WorkSchedule maps a schedule description onto the fixed taxonomy, passing
// unrecognized values through unchanged.
func WorkSchedule(schedule string) string {
	if missing(schedule) {
		return models.SentinelUnknown
	}

	if label, ok := firstMatch(scheduleRules, strings.ToLower(schedule)); ok {
		return label
	}
	return schedule
}
