package roster

import (
	"sort"
	"strings"

	"github.com/spec-kit/roster-service/internal/domain"
)

// DefaultBreakdownLimit caps StatusBreakdown when no limit is given.
const DefaultBreakdownLimit = 15

// DefaultRoles is offered when the roster has no roles yet.
var DefaultRoles = []string{
	"Analyst",
	"Assistant",
	"Coordinator",
	"Developer",
	"Director",
	"Manager",
	"Supervisor",
	"Technician",
}

// Units lists distinct non-empty unit labels, sorted, led by AllUnits.
func Units(records []domain.Collaborator) []string {
	units := distinct(records, func(c domain.Collaborator) string { return c.Unit })
	return append([]string{AllUnits}, units...)
}

// Roles lists distinct non-empty roles, sorted.
func Roles(records []domain.Collaborator) []string {
	roles := distinct(records, func(c domain.Collaborator) string { return c.Role })
	if len(roles) == 0 {
		return append([]string(nil), DefaultRoles...)
	}
	return roles
}

func distinct(records []domain.Collaborator, key func(domain.Collaborator) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := key(r)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// StatusGroup is one raw status value and how many records carry it.
type StatusGroup struct {
	Status   string
	Count    int
	Category domain.Category
}

// StatusBreakdown groups records by raw status text, most frequent first.
func StatusBreakdown(records []domain.Collaborator, limit int) []StatusGroup {
	if limit <= 0 {
		limit = DefaultBreakdownLimit
	}
	counts := make(map[string]int)
	for _, r := range records {
		if r.Status == "" {
			continue
		}
		counts[r.Status]++
	}

	groups := make([]StatusGroup, 0, len(counts))
	for status, n := range counts {
		groups = append(groups, StatusGroup{Status: status, Count: n, Category: domain.GuessCategory(status)})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Status < groups[j].Status
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
