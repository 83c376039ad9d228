package extract

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rabota-collector/pkg/models"
	"rabota-collector/pkg/utils"
)

// PageCount reads the pager at the bottom of a search listing and returns
// the number of result pages. Listings short enough to have no pager are a
// single page.
func PageCount(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}

	// The last pager entry names the highest page.
	last := doc.Find("a[data-qa='pager-page']").Last()
	if n, err := strconv.Atoi(strings.TrimSpace(last.Text())); err == nil && n > 0 {
		return n
	}

	return 1
}

// SearchResultLinks extracts the vacancy URLs from one search listing page,
// tagged with the specialization the listing belongs to.
func SearchResultLinks(html, specialization string) ([]models.VacancyLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, utils.NewExtractError("failed to parse search page HTML", err)
	}

	var links []models.VacancyLink
	doc.Find("div[data-qa='vacancy-serp__results'] a[data-qa='serp-item__title']").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, models.VacancyLink{
				Specialization: specialization,
				URL:            href,
			})
		}
	})

	return links, nil
}

// SearchSource pairs one search URL with the specialization name assigned to
// the vacancies it lists.
type SearchSource struct {
	URL            string
	Specialization string
}

// LoadSearchSources reads the two line-oriented source files — search URLs
// and specialization names — pairing entries by position. Blank lines and
// lines starting with # are skipped in both files.
func LoadSearchSources(linksFile, namesFile string) ([]SearchSource, error) {
	links, err := readLines(linksFile)
	if err != nil {
		return nil, utils.NewEnumerateError("failed to read search links file", err)
	}

	names, err := readLines(namesFile)
	if err != nil {
		return nil, utils.NewEnumerateError("failed to read specializations file", err)
	}

	if len(links) != len(names) {
		return nil, utils.NewEnumerateError(
			fmt.Sprintf("source files disagree: %d search links but %d specialization names", len(links), len(names)), nil)
	}

	sources := make([]SearchSource, 0, len(links))
	for i := range links {
		sources = append(sources, SearchSource{URL: links[i], Specialization: names[i]})
	}

	return sources, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, scanner.Err()
}
