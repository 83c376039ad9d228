package harmonize

import (
	"strings"

	"rabota-collector/pkg/models"
)

// Known Belarusian cities checked against the raw address, in table order.
// Keys are lowercase substrings, values the canonical spelling (the two
// «Могилёв» variants normalize the ё/е difference).
var cityTable = []struct {
	substr string
	name   string
}{
	{"минск", "Минск"},
	{"гомель", "Гомель"},
	{"могилев", "Могилёв"},
	{"могилёв", "Могилёв"},
	{"витебск", "Витебск"},
	{"гродно", "Гродно"},
	{"брест", "Брест"},
	{"бобруйск", "Бобруйск"},
	{"барановичи", "Барановичи"},
	{"борисов", "Борисов"},
	{"пинск", "Пинск"},
	{"мозырь", "Мозырь"},
	{"солигорск", "Солигорск"},
	{"лида", "Лида"},
	{"молодечно", "Молодечно"},
	{"полоцк", "Полоцк"},
	{"жлобин", "Жлобин"},
	{"светлогорск", "Светлогорск"},
	{"речица", "Речица"},
	{"жодино", "Жодино"},
	{"слуцк", "Слуцк"},
	{"новополоцк", "Новополоцк"},
}

// City extracts the canonical city name from a raw address. Addresses that
// name no known city fall back to their first comma-segment, trimmed.
func City(address string) string {
	if missing(address) {
		return models.SentinelUnknown
	}

	lower := strings.ToLower(address)
	for _, c := range cityTable {
		if strings.Contains(lower, c.substr) {
			return c.name
		}
	}

	segment, _, _ := strings.Cut(address, ",")
	return strings.TrimSpace(segment)
}
