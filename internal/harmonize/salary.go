package harmonize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"rabota-collector/pkg/models"
)

// Currency labels assigned by the salary interpreter.
const (
	CurrencyBYN = "BYN"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Compensation-type labels. Gross salaries («до вычета») are converted to
// their net equivalent before storage, so persisted bounds are always
// comparable regardless of how the posting stated them.
const (
	SalaryNet   = "На руки"
	SalaryGross = "До вычета"
)

// DefaultNetAdjustmentFactor is the assumed Belarusian income-tax
// withholding rate. Overridable through configuration.
const DefaultNetAdjustmentFactor = 0.85

// DefaultSalaryRoundingStep is the granularity averages are rounded to.
const DefaultSalaryRoundingStep = 50

// Integer tokens, optionally space-grouped («2 500»).
var salaryNumberRe = regexp.MustCompile(`\d+(?:\s?\d+)*`)

// ParseSalary interprets a raw salary string into a structured range.
// Currency markers are checked in fixed priority order (BYN, USD, EUR), the
// first match wins. Range resolution depends on how many numbers the string
// carries: two or more give a min/max pair (order-independent, only the
// first two considered), a single number is disambiguated by the «до»/«от»
// keywords, none leaves both bounds nil.
//
// netFactor is applied once, after range resolution, when the compensation
// type is gross. Rounding is half away from zero, matching how the source
// data was produced.
func ParseSalary(raw string, netFactor float64) models.SalaryRange {
	result := models.SalaryRange{
		Currency: models.SentinelUnknown,
		Type:     models.SentinelUnknown,
	}

	if raw == "" || raw == models.SentinelError || raw == models.SentinelUnknown || raw == models.SentinelNoSalary {
		return result
	}

	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "br") || strings.Contains(lower, "руб") || strings.Contains(lower, "р."):
		result.Currency = CurrencyBYN
	case strings.Contains(raw, "$") || strings.Contains(lower, "usd"):
		result.Currency = CurrencyUSD
	case strings.Contains(raw, "€") || strings.Contains(lower, "eur"):
		result.Currency = CurrencyEUR
	}

	if strings.Contains(lower, "на руки") {
		result.Type = SalaryNet
	} else if strings.Contains(lower, "до вычета") {
		result.Type = SalaryGross
	}

	numbers := extractNumbers(raw)

	switch {
	case len(numbers) >= 2:
		lo, hi := numbers[0], numbers[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		result.Min = intPtr(lo)
		result.Max = intPtr(hi)
	case len(numbers) == 1:
		// The «до вычета» type marker contains «до» and must not steer
		// range disambiguation: «3000 Br до вычета» is a fixed amount,
		// not an upper bound.
		keywords := strings.ReplaceAll(lower, "до вычета", "")
		switch {
		case strings.Contains(keywords, "до") && !strings.Contains(keywords, "от"):
			result.Max = intPtr(numbers[0])
		case strings.Contains(keywords, "от"):
			result.Min = intPtr(numbers[0])
		default:
			result.Min = intPtr(numbers[0])
			result.Max = intPtr(numbers[0])
		}
	}

	if result.Type == SalaryGross {
		if netFactor <= 0 {
			netFactor = DefaultNetAdjustmentFactor
		}
		if result.Min != nil {
			result.Min = intPtr(int(math.Round(float64(*result.Min) * netFactor)))
		}
		if result.Max != nil {
			result.Max = intPtr(int(math.Round(float64(*result.Max) * netFactor)))
		}
	}

	return result
}

// AverageSalary returns the mean of the present bounds rounded to the
// nearest multiple of step, ties rounding up. Nil when neither bound is
// present; the single present bound (rounded) when only one is.
func AverageSalary(min, max *int, step int) *int {
	if min == nil && max == nil {
		return nil
	}

	if step <= 0 {
		step = DefaultSalaryRoundingStep
	}

	// Work on the doubled mean so the .5 case stays exact in integers.
	var doubled int
	switch {
	case min != nil && max != nil:
		doubled = *min + *max
	case min != nil:
		doubled = 2 * *min
	default:
		doubled = 2 * *max
	}

	rounded := (doubled + step) / (2 * step) * step
	return intPtr(rounded)
}

// extractNumbers scans the string for integer tokens in order of appearance,
// collapsing internal space grouping.
func extractNumbers(s string) []int {
	var numbers []int
	for _, token := range salaryNumberRe.FindAllString(s, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(token, " ", ""))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

func intPtr(v int) *int {
	return &v
}
