package employee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newStatsEmployee(status Status, dept, role string, basic int64) Employee {
	return Employee{
		Status:     status,
		Department: Department(dept),
		Role:       Role(role),
		Salary: Salary{
			Basic:      decimal.NewFromInt(basic),
			Allowances: Allowances{HRA: decimal.NewFromInt(1000)},
			Deductions: Deductions{PF: decimal.NewFromInt(500)},
		},
	}
}

func TestBuildStats(t *testing.T) {
	stats := BuildStats([]Employee{
		newStatsEmployee(StatusActive, "IT", "Developer", 30000),
		newStatsEmployee(StatusActive, "IT", "Manager", 50000),
		newStatsEmployee(StatusInactive, "HR", "HR", 20000),
		newStatsEmployee(StatusTerminated, "", "Other", 10000),
	})

	assert.Equal(t, 4, stats.TotalEmployees)
	assert.Equal(t, 2, stats.ActiveEmployees)
	assert.Equal(t, 1, stats.InactiveEmployees)
	assert.Equal(t, 1, stats.TerminatedEmployees)
	assert.True(t, decimal.NewFromInt(112000).Equal(stats.TotalSalary), stats.TotalSalary.String())

	if assert.Len(t, stats.ByDepartment, 3) {
		assert.Equal(t, "IT", stats.ByDepartment[0].Name)
		assert.Equal(t, 2, stats.ByDepartment[0].Count)
		assert.True(t, decimal.NewFromInt(81000).Equal(stats.ByDepartment[0].TotalSalary))
		assert.Equal(t, "HR", stats.ByDepartment[1].Name)
		assert.Equal(t, "Other", stats.ByDepartment[2].Name)
	}
	assert.Len(t, stats.ByRole, 4)
}

func TestBuildStats_Empty(t *testing.T) {
	stats := BuildStats(nil)
	assert.Zero(t, stats.TotalEmployees)
	assert.True(t, stats.TotalSalary.IsZero())
	assert.Empty(t, stats.ByDepartment)
}

func TestEmployee_TotalSalary(t *testing.T) {
	e := Employee{FirstName: "Asha", LastName: "Rao", Salary: Salary{
		Basic:      decimal.NewFromInt(50000),
		Allowances: Allowances{HRA: decimal.NewFromInt(20000), DA: decimal.NewFromInt(5000), TA: decimal.NewFromInt(3000), Medical: decimal.NewFromInt(2000), Other: decimal.NewFromInt(1000)},
		Deductions: Deductions{PF: decimal.NewFromInt(6000), ESI: decimal.NewFromInt(1500), Tax: decimal.NewFromInt(5000)},
	}}

	assert.Equal(t, "Asha Rao", e.FullName())
	assert.True(t, decimal.NewFromInt(68500).Equal(e.TotalSalary()), e.TotalSalary().String())
}
