package expense

import (
	"context"
	"time"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	GetExpense(ctx context.Context, id string) (ExpenseResponse, error)
	UpdateExpense(ctx context.Context, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, filter ExpenseFilter) (ListExpenseResponse, error)
	GetStats(ctx context.Context, month, year int) (StatsResponse, error)
	GetProfitLoss(ctx context.Context, month, year int) (ProfitLossResponse, error)
	UploadReceipt(ctx context.Context, req UploadReceiptRequest) (ExpenseResponse, error)

	// ProcessRecurring records every recurring entry due on or before asOf and returns how many were created.
	ProcessRecurring(ctx context.Context, asOf time.Time) (int, error)
}
