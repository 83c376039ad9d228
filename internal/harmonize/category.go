package harmonize

import "strings"

// Broad specialization categories.
const (
	CategoryIT             = "IT и технологии"
	CategorySales          = "Продажи и маркетинг"
	CategoryProduction     = "Производство"
	CategoryAdministrative = "Административная работа"
	CategoryConstruction   = "Строительство"
	CategoryFinance        = "Финансы и бухгалтерия"
	CategoryEducation      = "Образование"
	CategoryMedicine       = "Медицина"
	CategoryTransport      = "Транспорт и логистика"
	CategoryOther          = "Другое"
)

var categoryRules = []rule{
	{[]string{"программист", "разработ", "it", "developer", "тестиров", "devops", "администратор", "аналитик данных"}, CategoryIT},
	{[]string{"продаж", "маркетинг", "менеджер по", "торговый", "pr", "реклам"}, CategorySales},
	{[]string{"производств", "инженер", "технолог", "оператор", "слесарь", "токарь"}, CategoryProduction},
	{[]string{"секретар", "офис", "администратор", "делопроизводств", "hr", "кадр"}, CategoryAdministrative},
	{[]string{"строит", "прораб", "монтаж", "отделочник", "электрик", "сантехник"}, CategoryConstruction},
	{[]string{"бухгалтер", "финанс", "экономист", "аудит", "банк"}, CategoryFinance},
	{[]string{"преподават", "учитель", "воспитател", "педагог", "методист"}, CategoryEducation},
	{[]string{"врач", "медицин", "медсестра", "фельдшер", "фармацевт"}, CategoryMedicine},
	{[]string{"водитель", "логист", "экспедитор", "грузчик", "курьер", "транспорт"}, CategoryTransport},
}

// Category classifies a specialization name into one of the broad
// categories. The keyword groups overlap («администратор» appears in both
// the IT and administrative groups); order decides, per the first-match
// contract.
func Category(specialization string) string {
	if missing(specialization) {
		return CategoryOther
	}

	if label, ok := firstMatch(categoryRules, strings.ToLower(specialization)); ok {
		return label
	}
	return CategoryOther
}
