package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"rabota-collector/pkg/models"
	"rabota-collector/pkg/utils"
)

// Extractor turns a rendered rabota.by vacancy page into a flat raw record.
// Every field extraction is independent and falls back to the source's
// literal "not specified" sentinel, so one broken selector never fails the
// whole item.
type Extractor struct{}

// NewExtractor creates a new field extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// VacancyFields extracts the raw vacancy record from page HTML, stamping it
// with the source URL and the monitoring date/time.
func (e *Extractor) VacancyFields(html, url string, now time.Time) (models.RawVacancy, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.RawVacancy{}, utils.NewExtractError("failed to parse page HTML", err)
	}

	return models.RawVacancy{
		Title:          e.extractTitle(doc),
		SalaryRaw:      e.extractSalary(doc),
		Experience:     e.extractExperience(doc),
		WorkSchedule:   e.extractEmployment(doc),
		WorkFormat:     e.extractWorkFormat(doc),
		Company:        e.extractCompany(doc),
		Address:        e.extractAddress(doc),
		Description:    e.extractDescription(doc),
		Skills:         e.extractSkills(doc),
		URL:            url,
		MonitoringDate: now.Format("02.01.2006"),
		MonitoringTime: now.Format("15:04"),
	}, nil
}

func (e *Extractor) extractTitle(doc *goquery.Document) string {
	if text := cleanText(doc.Find("h1").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

// extractSalary reads the main salary block, falling back to the
// compensation-type span some layouts use instead. Supports Br, $, € and ₽
// markers; the interpreter downstream decides what they mean.
func (e *Extractor) extractSalary(doc *goquery.Document) string {
	selectors := []string{
		"[data-qa='vacancy-salary']",
		"[data-qa='vacancy-salary-compensation-type-net']",
	}

	for _, selector := range selectors {
		if text := cleanText(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}

	return models.SentinelNoSalary
}

func (e *Extractor) extractExperience(doc *goquery.Document) string {
	if text := cleanText(doc.Find("span[data-qa='vacancy-experience']").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

func (e *Extractor) extractEmployment(doc *goquery.Document) string {
	// The employment block has no data-qa attribute, only an obfuscated
	// class name that changes with site deployments.
	if text := cleanText(doc.Find("div[class^='dotted-wrapper']").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

func (e *Extractor) extractWorkFormat(doc *goquery.Document) string {
	if text := cleanText(doc.Find("p[data-qa='work-formats-text']").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

func (e *Extractor) extractCompany(doc *goquery.Document) string {
	if text := cleanText(doc.Find("span.vacancy-company-name").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

func (e *Extractor) extractAddress(doc *goquery.Document) string {
	if text := cleanText(doc.Find("span[data-qa='vacancy-view-raw-address']").First().Text()); text != "" {
		return text
	}
	return models.SentinelUnknown
}

func (e *Extractor) extractDescription(doc *goquery.Document) string {
	selectors := []string{
		"div.tmpl_hh_wrapper",
		"div.g-user-content",
	}

	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}

	return models.SentinelUnknown
}

// extractSkills joins the page's skill tags into one semicolon-delimited
// string, the shape the enrichment step counts segments of.
func (e *Extractor) extractSkills(doc *goquery.Document) string {
	var skills []string
	doc.Find("li[data-qa='skills-element']").Each(func(_ int, s *goquery.Selection) {
		if skill := cleanText(s.Find("div").First().Text()); skill != "" {
			skills = append(skills, skill)
		}
	})

	if len(skills) == 0 {
		return models.SentinelUnknown
	}
	return strings.Join(skills, "; ")
}

// cleanText collapses runs of whitespace (including the non-breaking spaces
// rabota.by uses for digit grouping) into single spaces and trims the ends.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
