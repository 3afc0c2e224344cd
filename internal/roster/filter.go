// Package roster holds the client-side filtering and aggregation applied to an
// in-memory roster snapshot. Every function here is pure.
package roster

import (
	"strings"

	"github.com/spec-kit/roster-service/internal/domain"
)

// AllUnits is the unit selection that disables unit filtering.
const AllUnits = "All units"

// legacyAllUnits is the sentinel used by older dashboard clients.
const legacyAllUnits = "Todas as Unidades"

// Filter is a set of roster selections. The zero value selects everything.
type Filter struct {
	Category domain.Category
	Unit     string
	Query    string
}

// Normalize returns the filter with sentinels and blank values collapsed.
func (f Filter) Normalize() Filter {
	if f.Category == "" {
		f.Category = domain.CategoryAll
	}
	if f.Unit == "" || f.Unit == legacyAllUnits {
		f.Unit = AllUnits
	}
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))
	return f
}

// IsIdentity reports whether the filter keeps every record.
func (f Filter) IsIdentity() bool {
	n := f.Normalize()
	return n.Category == domain.CategoryAll && n.Unit == AllUnits && n.Query == ""
}

// Matches applies category, then unit, then free-text query.
func (f Filter) Matches(c domain.Collaborator) bool {
	n := f.Normalize()
	return n.matches(c)
}

func (f Filter) matches(c domain.Collaborator) bool {
	if f.Category != domain.CategoryAll && c.Category() != f.Category {
		return false
	}
	if f.Unit != AllUnits && c.Unit != f.Unit {
		return false
	}
	if f.Query != "" && !containsQuery(c, f.Query) {
		return false
	}
	return true
}

func containsQuery(c domain.Collaborator, lowered string) bool {
	return strings.Contains(strings.ToLower(c.Name), lowered) ||
		strings.Contains(strings.ToLower(c.Role), lowered) ||
		strings.Contains(strings.ToLower(c.Unit), lowered)
}

// ComputeView returns the records matching f, in input order. The input slice
// is never modified; nil input yields an empty, non-nil slice.
func ComputeView(records []domain.Collaborator, f Filter) []domain.Collaborator {
	n := f.Normalize()
	out := make([]domain.Collaborator, 0, len(records))
	for _, c := range records {
		if n.matches(c) {
			out = append(out, c)
		}
	}
	return out
}
