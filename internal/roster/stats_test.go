package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/roster-service/internal/domain"
)

func sumCounts(s Statistics) int {
	total := 0
	for _, n := range s.ByCategory {
		total += n
	}
	return total
}

func TestComputeStatistics_WorkedExample(t *testing.T) {
	records := []domain.Collaborator{
		{Name: "Ana Silva", Status: "Trabalhando", Unit: "Unidade A"},
		{Name: "Carlos Santos", Status: "Demitido", Unit: "Unidade B"},
	}

	stats := ComputeStatistics(records)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, map[domain.Category]int{
		domain.CategoryActive:            1,
		domain.CategoryTerminated:        1,
		domain.CategoryRetiredDisability: 0,
		domain.CategorySickLeave:         0,
		domain.CategoryUnknown:           0,
	}, stats.ByCategory)

	view := ComputeView(records, Filter{Category: domain.CategoryActive})
	if assert.Len(t, view, 1) {
		assert.Equal(t, "Ana Silva", view[0].Name)
	}
}

func TestComputeStatistics_Partition(t *testing.T) {
	inputs := [][]domain.Collaborator{
		nil,
		{},
		sampleRoster(),
		append(sampleRoster(), sampleRoster()...),
	}
	for _, records := range inputs {
		stats := ComputeStatistics(records)
		assert.Equal(t, len(records), stats.Total)
		assert.Equal(t, stats.Total, sumCounts(stats))
		assert.Len(t, stats.ByCategory, len(domain.Categories))
	}
}

func TestComputeStatistics_EmptyIsAllZero(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Zero(t, stats.Total)
	for _, c := range domain.Categories {
		assert.Zero(t, stats.Count(c))
	}
	for _, p := range stats.Percentages() {
		assert.Zero(t, p)
	}
}

func TestStatistics_CountAndPercentages(t *testing.T) {
	stats := ComputeStatistics(sampleRoster())

	assert.Equal(t, 6, stats.Count(domain.CategoryAll))
	assert.Equal(t, 2, stats.Count(domain.CategoryActive))

	pct := stats.Percentages()
	assert.InDelta(t, 33.333, pct[domain.CategoryActive], 0.01)
	assert.InDelta(t, 16.666, pct[domain.CategoryUnknown], 0.01)

	var sum float64
	for _, p := range pct {
		sum += p
	}
	assert.InDelta(t, 100, sum, 0.0001)
}
