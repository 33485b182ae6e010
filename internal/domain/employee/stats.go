package employee

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildStats aggregates headcount and standing salary by status, department and role.
// Salary totals count every employee regardless of status.
func BuildStats(employees []Employee) Stats {
	stats := Stats{TotalSalary: decimal.Zero}
	byDept := map[string]*GroupCount{}
	byRole := map[string]*GroupCount{}

	for _, e := range employees {
		stats.TotalEmployees++
		switch e.Status {
		case StatusActive:
			stats.ActiveEmployees++
		case StatusInactive:
			stats.InactiveEmployees++
		case StatusTerminated:
			stats.TerminatedEmployees++
		}
		total := e.TotalSalary()
		stats.TotalSalary = stats.TotalSalary.Add(total)
		addGroup(byDept, string(e.Department), total)
		addGroup(byRole, string(e.Role), total)
	}

	stats.ByDepartment = sortedGroups(byDept)
	stats.ByRole = sortedGroups(byRole)
	return stats
}

func addGroup(groups map[string]*GroupCount, name string, salary decimal.Decimal) {
	if name == "" {
		name = "Other"
	}
	g, ok := groups[name]
	if !ok {
		g = &GroupCount{Name: name, TotalSalary: decimal.Zero}
		groups[name] = g
	}
	g.Count++
	g.TotalSalary = g.TotalSalary.Add(salary)
}

// sortedGroups orders by count descending, then name.
func sortedGroups(groups map[string]*GroupCount) []GroupCount {
	out := make([]GroupCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
