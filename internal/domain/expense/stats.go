package expense

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Overview struct {
	TotalExpenses     decimal.Decimal
	TotalRevenue      decimal.Decimal
	TotalTransactions int
	ExpenseCount      int
	RevenueCount      int
}

type CategoryTotal struct {
	Category    string
	TotalAmount decimal.Decimal
	Count       int
}

type MonthTotal struct {
	Year        int
	Month       int
	Type        Type
	TotalAmount decimal.Decimal
	Count       int
}

type Stats struct {
	Overview   Overview
	ByCategory []CategoryTotal // expenses only, largest first
	ByMonth    []MonthTotal
}

// BuildStats aggregates ledger entries. Cancelled entries are ignored.
func BuildStats(entries []Expense) Stats {
	st := Stats{Overview: Overview{TotalExpenses: decimal.Zero, TotalRevenue: decimal.Zero}}
	byCategory := map[string]*CategoryTotal{}
	type monthKey struct {
		year, month int
		typ         Type
	}
	byMonth := map[monthKey]*MonthTotal{}

	for _, e := range entries {
		if e.Status == StatusCancelled {
			continue
		}
		st.Overview.TotalTransactions++
		switch e.Type {
		case TypeExpense:
			st.Overview.ExpenseCount++
			st.Overview.TotalExpenses = st.Overview.TotalExpenses.Add(e.Amount)

			c, ok := byCategory[string(e.Category)]
			if !ok {
				c = &CategoryTotal{Category: string(e.Category), TotalAmount: decimal.Zero}
				byCategory[string(e.Category)] = c
			}
			c.TotalAmount = c.TotalAmount.Add(e.Amount)
			c.Count++
		case TypeRevenue:
			st.Overview.RevenueCount++
			st.Overview.TotalRevenue = st.Overview.TotalRevenue.Add(e.Amount)
		}

		k := monthKey{e.Date.Year(), int(e.Date.Month()), e.Type}
		m, ok := byMonth[k]
		if !ok {
			m = &MonthTotal{Year: k.year, Month: k.month, Type: e.Type, TotalAmount: decimal.Zero}
			byMonth[k] = m
		}
		m.TotalAmount = m.TotalAmount.Add(e.Amount)
		m.Count++
	}

	for _, c := range byCategory {
		st.ByCategory = append(st.ByCategory, *c)
	}
	sort.Slice(st.ByCategory, func(i, j int) bool {
		if !st.ByCategory[i].TotalAmount.Equal(st.ByCategory[j].TotalAmount) {
			return st.ByCategory[i].TotalAmount.GreaterThan(st.ByCategory[j].TotalAmount)
		}
		return st.ByCategory[i].Category < st.ByCategory[j].Category
	})

	for _, m := range byMonth {
		st.ByMonth = append(st.ByMonth, *m)
	}
	sort.Slice(st.ByMonth, func(i, j int) bool {
		a, b := st.ByMonth[i], st.ByMonth[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Type < b.Type
	})
	return st
}

type ProfitLoss struct {
	Month        int
	Year         int
	MonthName    string
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	NetProfit    decimal.Decimal
	ProfitMargin decimal.Decimal // percent of revenue, 0 when there is no revenue
}

func ComputeProfitLoss(month, year int, entries []Expense) ProfitLoss {
	ov := BuildStats(entries).Overview
	net := ov.TotalRevenue.Sub(ov.TotalExpenses)
	margin := decimal.Zero
	if ov.TotalRevenue.IsPositive() {
		margin = net.Div(ov.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return ProfitLoss{
		Month:        month,
		Year:         year,
		MonthName:    time.Month(month).String() + " " + strconv.Itoa(year),
		Revenue:      ov.TotalRevenue,
		Expenses:     ov.TotalExpenses,
		NetProfit:    net,
		ProfitMargin: margin,
	}
}
