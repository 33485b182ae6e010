package expense

import (
	"context"
	"time"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	Update(ctx context.Context, e Expense) (Expense, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ExpenseFilter) ([]Expense, int64, error)

	// ListInRange returns entries with start <= date <= end. A zero bound is open.
	ListInRange(ctx context.Context, start, end time.Time) ([]Expense, error)
	// ListDueRecurring returns recurring templates whose next due date is on or before asOf.
	ListDueRecurring(ctx context.Context, asOf time.Time) ([]Expense, error)
}
