package memory

import (
	"context"
	"sort"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
)

type expenseRepository struct {
	s *Store
}

func NewExpenseRepository(s *Store) expense.ExpenseRepository {
	return &expenseRepository{s: s}
}

func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	e.ID = newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.s.expenses[e.ID] = cloneExpense(e)
	return e, nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	return cloneExpense(e), nil
}

func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.expenses[e.ID]
	if !ok {
		return expense.Expense{}, expense.ErrExpenseNotFound
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.expenses[e.ID] = cloneExpense(e)
	return e, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return expense.ErrExpenseNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

func (r *expenseRepository) List(ctx context.Context, filter expense.ExpenseFilter) ([]expense.Expense, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var start, end time.Time
	if filter.StartDate != nil {
		start, _ = validator.IsValidDate(*filter.StartDate)
	}
	if filter.EndDate != nil {
		end, _ = validator.IsValidDate(*filter.EndDate)
	}

	var matched []expense.Expense
	for _, e := range r.s.expenses {
		if filter.Search != nil && *filter.Search != "" {
			desc := ""
			if e.Description != nil {
				desc = *e.Description
			}
			if !containsFold(e.Title, *filter.Search) && !containsFold(desc, *filter.Search) && !containsFold(e.Vendor.Name, *filter.Search) {
				continue
			}
		}
		if filter.Type != nil && string(e.Type) != *filter.Type {
			continue
		}
		if filter.Category != nil && string(e.Category) != *filter.Category {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if !inRange(e.Date, start, end) {
			continue
		}
		matched = append(matched, cloneExpense(e))
	}

	sortBy(matched, filter.SortOrder, expenseLess(filter.SortBy))
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func expenseLess(column string) func(a, b expense.Expense) bool {
	switch column {
	case "amount":
		return func(a, b expense.Expense) bool { return a.Amount.LessThan(b.Amount) }
	case "title":
		return func(a, b expense.Expense) bool { return a.Title < b.Title }
	case "created_at":
		return func(a, b expense.Expense) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b expense.Expense) bool { return a.Date.Before(b.Date) }
	}
}

func (r *expenseRepository) ListInRange(ctx context.Context, start, end time.Time) ([]expense.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []expense.Expense
	for _, e := range r.s.expenses {
		if inRange(e.Date, start, end) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *expenseRepository) ListDueRecurring(ctx context.Context, asOf time.Time) ([]expense.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []expense.Expense
	for _, e := range r.s.expenses {
		if e.IsDue(asOf) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Recurring.NextDueDate.Before(*out[j].Recurring.NextDueDate) })
	return out, nil
}

func cloneExpense(e expense.Expense) expense.Expense {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}
