package domain

import "strings"

// Category enumerates employment-status classifications.
type Category string

const (
	CategoryAll               Category = "ALL"
	CategoryActive            Category = "ACTIVE"
	CategoryTerminated        Category = "TERMINATED"
	CategoryRetiredDisability Category = "RETIRED_DISABILITY"
	CategorySickLeave         Category = "SICK_LEAVE"
	CategoryUnknown           Category = "UNKNOWN"
)

// Categories lists every category a record can fall into, in precedence order.
var Categories = []Category{
	CategoryActive,
	CategoryTerminated,
	CategoryRetiredDisability,
	CategorySickLeave,
	CategoryUnknown,
}

// statusRules is evaluated top to bottom; the first matching rule wins.
var statusRules = []struct {
	category Category
	values   []string
}{
	{CategoryActive, []string{"Working", "Trabalhando"}},
	{CategoryTerminated, []string{"Dismissed", "Demitido"}},
	{CategoryRetiredDisability, []string{"Retired due to Disability", "Aposentadoria por Invalidez"}},
	{CategorySickLeave, []string{"Sick Leave", "Auxilio Doença", "Auxílio Doença"}},
}

// ClassifyStatus maps raw status text to its category.
func ClassifyStatus(raw string) Category {
	text := strings.TrimSpace(raw)
	if text == "" {
		return CategoryUnknown
	}
	for _, rule := range statusRules {
		for _, v := range rule.values {
			if strings.EqualFold(text, v) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

// GuessCategory classifies loosely by substring. It is meant for reporting on
// dirty status values, never for filtering.
func GuessCategory(raw string) Category {
	upper := strings.ToUpper(raw)
	switch {
	case strings.Contains(upper, "TRABALH"), strings.Contains(upper, "WORKING"):
		return CategoryActive
	case strings.Contains(upper, "DEMIT"), strings.Contains(upper, "DISMISS"):
		return CategoryTerminated
	case strings.Contains(upper, "APOSENT"), strings.Contains(upper, "RETIRED"):
		return CategoryRetiredDisability
	case strings.Contains(upper, "AUXIL"), strings.Contains(upper, "DOENÇA"),
		strings.Contains(upper, "DOENCA"), strings.Contains(upper, "SICK"):
		return CategorySickLeave
	default:
		return CategoryUnknown
	}
}

var categoryLabels = map[Category]string{
	CategoryAll:               "All",
	CategoryActive:            "Active",
	CategoryTerminated:        "Terminated",
	CategoryRetiredDisability: "Retired due to Disability",
	CategorySickLeave:         "Sick Leave",
	CategoryUnknown:           "Unknown",
}

// Label returns the human readable name.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var categoryAliases = map[string]Category{
	"all":                         CategoryAll,
	"todos":                       CategoryAll,
	"active":                      CategoryActive,
	"working":                     CategoryActive,
	"trabalhando":                 CategoryActive,
	"terminated":                  CategoryTerminated,
	"dismissed":                   CategoryTerminated,
	"demitido":                    CategoryTerminated,
	"demitidos":                   CategoryTerminated,
	"retired_disability":          CategoryRetiredDisability,
	"retired due to disability":   CategoryRetiredDisability,
	"aposentadoria por invalidez": CategoryRetiredDisability,
	"aposentados":                 CategoryRetiredDisability,
	"sick_leave":                  CategorySickLeave,
	"sick leave":                  CategorySickLeave,
	"auxílio doença":              CategorySickLeave,
	"auxilio doença":              CategorySickLeave,
	"auxilio doenca":              CategorySickLeave,
	"unknown":                     CategoryUnknown,
}

// ParseCategory resolves a selection label to a category. An empty label
// selects all categories.
func ParseCategory(label string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return CategoryAll, true
	}
	c, ok := categoryAliases[key]
	return c, ok
}
