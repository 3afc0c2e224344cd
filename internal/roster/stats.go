package roster

import "github.com/spec-kit/roster-service/internal/domain"

// Statistics counts records per category. Total always equals the sum of
// ByCategory.
type Statistics struct {
	Total      int
	ByCategory map[domain.Category]int
}

// ComputeStatistics places every record into exactly one category.
func ComputeStatistics(records []domain.Collaborator) Statistics {
	stats := Statistics{ByCategory: make(map[domain.Category]int, len(domain.Categories))}
	for _, c := range domain.Categories {
		stats.ByCategory[c] = 0
	}
	for _, r := range records {
		stats.ByCategory[r.Category()]++
		stats.Total++
	}
	return stats
}

// Count returns the number of records in category c.
func (s Statistics) Count(c domain.Category) int {
	if c == domain.CategoryAll {
		return s.Total
	}
	return s.ByCategory[c]
}

// Percentages returns each category's share of the total, in the 0..100 range.
func (s Statistics) Percentages() map[domain.Category]float64 {
	out := make(map[domain.Category]float64, len(domain.Categories))
	for _, c := range domain.Categories {
		if s.Total == 0 {
			out[c] = 0
			continue
		}
		out[c] = float64(s.ByCategory[c]) * 100 / float64(s.Total)
	}
	return out
}
