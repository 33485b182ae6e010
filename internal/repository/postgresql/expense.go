package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
)

const expenseColumns = `
	id, title, description, amount, type, category, vendor, date, payment_method, status,
	receipt, tags, is_recurring, frequency, next_due_date,
	approved_by, approved_at, created_by, created_at, updated_at`

type expenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepository{db: db}
}

func scanExpense(row pgx.Row) (expense.Expense, error) {
	var e expense.Expense
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Amount, &e.Type, &e.Category, &e.Vendor, &e.Date,
		&e.PaymentMethod, &e.Status, &e.Receipt, &e.Tags,
		&e.Recurring.IsRecurring, &e.Recurring.Frequency, &e.Recurring.NextDueDate,
		&e.ApprovedBy, &e.ApprovedAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *expenseRepository) Create(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	if e.Tags == nil {
		e.Tags = []string{}
	}

	query := `
		INSERT INTO expenses (
			title, description, amount, type, category, vendor, date, payment_method, status,
			receipt, tags, is_recurring, frequency, next_due_date, approved_by, approved_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.Title, e.Description, e.Amount, e.Type, e.Category, e.Vendor, e.Date, e.PaymentMethod, e.Status,
		e.Receipt, e.Tags, e.Recurring.IsRecurring, e.Recurring.Frequency, e.Recurring.NextDueDate,
		e.ApprovedBy, e.ApprovedAt, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanExpense(q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return expense.Expense{}, expense.ErrExpenseNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func (r *expenseRepository) Update(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	if e.Tags == nil {
		e.Tags = []string{}
	}

	query := `
		UPDATE expenses SET
			title = $2, description = $3, amount = $4, type = $5, category = $6, vendor = $7,
			date = $8, payment_method = $9, status = $10, receipt = $11, tags = $12,
			is_recurring = $13, frequency = $14, next_due_date = $15,
			approved_by = $16, approved_at = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.ID, e.Title, e.Description, e.Amount, e.Type, e.Category, e.Vendor,
		e.Date, e.PaymentMethod, e.Status, e.Receipt, e.Tags,
		e.Recurring.IsRecurring, e.Recurring.Frequency, e.Recurring.NextDueDate,
		e.ApprovedBy, e.ApprovedAt,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return expense.Expense{}, expense.ErrExpenseNotFound
		}
		return expense.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return expense.ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

func (r *expenseRepository) List(ctx context.Context, filter expense.ExpenseFilter) ([]expense.Expense, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR COALESCE(description, '') ILIKE $%d OR vendor->>'name' ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil {
		if start, ok := validator.IsValidDate(*filter.StartDate); ok {
			conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
			args = append(args, start)
			argIdx++
		}
	}
	if filter.EndDate != nil {
		if end, ok := validator.IsValidDate(*filter.EndDate); ok {
			conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
			args = append(args, end)
			argIdx++
		}
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM expenses WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	sortColumn := map[string]string{
		"date":       "date",
		"amount":     "amount",
		"title":      "title",
		"created_at": "created_at",
	}[filter.SortBy]
	if sortColumn == "" {
		sortColumn = "date"
	}

	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		expenseColumns, whereClause, sortColumn, sortDirection(filter.SortOrder), argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) ListInRange(ctx context.Context, start, end time.Time) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE ($1::date IS NULL OR date >= $1)
		  AND ($2::date IS NULL OR date <= $2)
		ORDER BY date, id`
	rows, err := q.Query(ctx, query, dateBound(start), dateBound(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses in range: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r *expenseRepository) ListDueRecurring(ctx context.Context, asOf time.Time) ([]expense.Expense, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE is_recurring AND status <> 'Cancelled'
		  AND next_due_date IS NOT NULL AND next_due_date <= $1
		ORDER BY next_due_date, id`
	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring expenses: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]expense.Expense, error) {
	var expenses []expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
