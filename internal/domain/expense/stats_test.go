package expense

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(typ Type, cat string, amount int64, date string, status Status) Expense {
	d, _ := time.Parse("2006-01-02", date)
	return Expense{Type: typ, Category: Category(cat), Amount: decimal.NewFromInt(amount), Date: d, Status: status}
}

func TestBuildStats(t *testing.T) {
	entries := []Expense{
		entry(TypeExpense, "Rent", 30000, "2024-03-01", StatusPaid),
		entry(TypeExpense, "Utilities", 5000, "2024-03-05", StatusPaid),
		entry(TypeExpense, "Rent", 30000, "2024-04-01", StatusPending),
		entry(TypeExpense, "Travel", 99999, "2024-04-02", StatusCancelled),
		entry(TypeRevenue, "Other", 120000, "2024-03-20", StatusPaid),
	}

	st := BuildStats(entries)

	assert.Equal(t, 4, st.Overview.TotalTransactions)
	assert.Equal(t, 3, st.Overview.ExpenseCount)
	assert.Equal(t, 1, st.Overview.RevenueCount)
	assert.True(t, st.Overview.TotalExpenses.Equal(decimal.NewFromInt(65000)))
	assert.True(t, st.Overview.TotalRevenue.Equal(decimal.NewFromInt(120000)))

	require.Len(t, st.ByCategory, 2)
	assert.Equal(t, "Rent", st.ByCategory[0].Category)
	assert.Equal(t, 2, st.ByCategory[0].Count)

	require.Len(t, st.ByMonth, 3)
	assert.Equal(t, 3, st.ByMonth[0].Month)
	assert.Equal(t, TypeExpense, st.ByMonth[0].Type)
	assert.Equal(t, TypeRevenue, st.ByMonth[1].Type)
	assert.Equal(t, 4, st.ByMonth[2].Month)
}

func TestComputeProfitLoss(t *testing.T) {
	pl := ComputeProfitLoss(3, 2024, []Expense{
		entry(TypeExpense, "Rent", 30000, "2024-03-01", StatusPaid),
		entry(TypeRevenue, "Other", 120000, "2024-03-20", StatusPaid),
	})

	assert.Equal(t, "March 2024", pl.MonthName)
	assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(90000)))
	assert.True(t, pl.ProfitMargin.Equal(decimal.NewFromInt(75)))
}

func TestComputeProfitLoss_NoRevenue(t *testing.T) {
	pl := ComputeProfitLoss(3, 2024, []Expense{entry(TypeExpense, "Rent", 100, "2024-03-01", StatusPaid)})

	assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(-100)))
	assert.True(t, pl.ProfitMargin.IsZero())
}

func TestOccurrence(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	tmpl := Expense{
		Title:     "Office rent",
		Amount:    decimal.NewFromInt(30000),
		Type:      TypeExpense,
		Category:  "Rent",
		Status:    StatusPaid,
		Recurring: Recurrence{IsRecurring: true, Frequency: FrequencyQuarterly, NextDueDate: &due},
	}

	assert.True(t, tmpl.IsDue(due))
	assert.False(t, tmpl.IsDue(due.AddDate(0, 0, -1)))

	occ := tmpl.Occurrence()

	assert.Equal(t, due, occ.Date)
	assert.Equal(t, StatusPending, occ.Status)
	assert.False(t, occ.Recurring.IsRecurring)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *tmpl.Recurring.NextDueDate)
}
