package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/officehr/payroll-backend-go/internal/service/file"
)

type ExpenseServiceImpl struct {
	expenseRepo expense.ExpenseRepository
	fileService file.FileService
	transactor  database.Transactor
	now         func() time.Time
}

func NewExpenseService(
	expenseRepo expense.ExpenseRepository,
	fileService file.FileService,
	transactor database.Transactor,
) expense.ExpenseService {
	return &ExpenseServiceImpl{
		expenseRepo: expenseRepo,
		fileService: fileService,
		transactor:  transactor,
		now:         time.Now,
	}
}

func (s *ExpenseServiceImpl) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *ExpenseServiceImpl) CreateExpense(ctx context.Context, req expense.CreateExpenseRequest) (expense.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return expense.ExpenseResponse{}, err
	}

	date := s.today()
	if req.Date != "" {
		date, _ = validator.IsValidDate(req.Date)
	}

	e := expense.Expense{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          expense.Type(req.Type),
		Category:      expense.Category(req.Category),
		Vendor:        req.Vendor,
		Date:          date,
		PaymentMethod: expense.PaymentMethod(valueOr(req.PaymentMethod, "Cash")),
		Status:        expense.Status(valueOr(req.Status, string(expense.StatusPending))),
		Tags:          req.Tags,
		Recurring:     req.Recurring.ToRecurrence(),
		CreatedBy:     req.CreatedBy,
	}

	created, err := s.expenseRepo.Create(ctx, e)
	if err != nil {
		return expense.ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense.NewExpenseResponse(created), nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (s *ExpenseServiceImpl) GetExpense(ctx context.Context, id string) (expense.ExpenseResponse, error) {
	e, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return expense.ExpenseResponse{}, err
	}
	return expense.NewExpenseResponse(e), nil
}

func (s *ExpenseServiceImpl) UpdateExpense(ctx context.Context, req expense.UpdateExpenseRequest) (expense.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return expense.ExpenseResponse{}, err
	}

	e, err := s.expenseRepo.GetByID(ctx, req.ID)
	if err != nil {
		return expense.ExpenseResponse{}, err
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Type != nil {
		e.Type = expense.Type(*req.Type)
	}
	if req.Category != nil {
		e.Category = expense.Category(*req.Category)
	}
	if req.Vendor != nil {
		e.Vendor = *req.Vendor
	}
	if req.Date != nil {
		e.Date, _ = validator.IsValidDate(*req.Date)
	}
	if req.PaymentMethod != nil {
		e.PaymentMethod = expense.PaymentMethod(*req.PaymentMethod)
	}
	if req.Tags != nil {
		e.Tags = req.Tags
	}
	if req.Recurring != nil {
		e.Recurring = req.Recurring.ToRecurrence()
	}
	if req.Status != nil && expense.Status(*req.Status) != e.Status {
		e.Status = expense.Status(*req.Status)
		if e.Status == expense.StatusPaid && req.ApprovedBy != nil {
			now := s.now()
			e.ApprovedBy = req.ApprovedBy
			e.ApprovedAt = &now
		}
	}

	updated, err := s.expenseRepo.Update(ctx, e)
	if err != nil {
		return expense.ExpenseResponse{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense.NewExpenseResponse(updated), nil
}

func (s *ExpenseServiceImpl) DeleteExpense(ctx context.Context, id string) error {
	e, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if e.Receipt != nil {
		if err := s.fileService.DeleteFile(ctx, e.Receipt.Filename); err != nil {
			slog.Warn("failed to delete receipt", slog.String("expense_id", id), slog.Any("error", err))
		}
	}
	return nil
}

func (s *ExpenseServiceImpl) ListExpenses(ctx context.Context, filter expense.ExpenseFilter) (expense.ListExpenseResponse, error) {
	if err := filter.Validate(); err != nil {
		return expense.ListExpenseResponse{}, err
	}

	entries, total, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return expense.ListExpenseResponse{}, fmt.Errorf("failed to list expenses: %w", err)
	}

	responses := make([]expense.ExpenseResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, expense.NewExpenseResponse(e))
	}
	return expense.ListExpenseResponse{
		Expenses:   responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// periodBounds maps month/year to a date window. Zero values widen it: a year
// alone covers the whole year, neither covers all time.
func periodBounds(month, year int) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors
	if month < 0 || month > 12 {
		errs.Add("month", "must be between 1 and 12")
	}
	if month > 0 && year == 0 {
		errs.Add("year", "is required when month is given")
	}
	if year != 0 && (year < 2000 || year > 2100) {
		errs.Add("year", "must be between 2000 and 2100")
	}
	if err := errs.OrNil(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch {
	case year == 0:
		return time.Time{}, time.Time{}, nil
	case month == 0:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, -1), nil
	default:
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), nil
	}
}

func (s *ExpenseServiceImpl) GetStats(ctx context.Context, month, year int) (expense.StatsResponse, error) {
	start, end, err := periodBounds(month, year)
	if err != nil {
		return expense.StatsResponse{}, err
	}
	entries, err := s.expenseRepo.ListInRange(ctx, start, end)
	if err != nil {
		return expense.StatsResponse{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expense.NewStatsResponse(expense.BuildStats(entries)), nil
}

// GetProfitLoss defaults to the current month when month or year is omitted.
func (s *ExpenseServiceImpl) GetProfitLoss(ctx context.Context, month, year int) (expense.ProfitLossResponse, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	start, end, err := periodBounds(month, year)
	if err != nil {
		return expense.ProfitLossResponse{}, err
	}
	entries, err := s.expenseRepo.ListInRange(ctx, start, end)
	if err != nil {
		return expense.ProfitLossResponse{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expense.NewProfitLossResponse(expense.ComputeProfitLoss(month, year, entries)), nil
}

// UploadReceipt stores the file and replaces any previous receipt.
func (s *ExpenseServiceImpl) UploadReceipt(ctx context.Context, req expense.UploadReceiptRequest) (expense.ExpenseResponse, error) {
	if err := req.Validate(); err != nil {
		return expense.ExpenseResponse{}, err
	}

	e, err := s.expenseRepo.GetByID(ctx, req.ExpenseID)
	if err != nil {
		return expense.ExpenseResponse{}, err
	}

	path, err := s.fileService.UploadReceipt(ctx, e.ID, req.File, req.Filename)
	if err != nil {
		if errors.Is(err, file.ErrUnsupportedFileType) {
			return expense.ExpenseResponse{}, fmt.Errorf("%w: %v", expense.ErrInvalidReceipt, err)
		}
		return expense.ExpenseResponse{}, fmt.Errorf("failed to store receipt: %w", err)
	}

	previous := e.Receipt
	e.Receipt = &expense.Receipt{Filename: path, OriginalName: req.Filename, UploadDate: s.now()}
	updated, err := s.expenseRepo.Update(ctx, e)
	if err != nil {
		return expense.ExpenseResponse{}, fmt.Errorf("failed to attach receipt: %w", err)
	}

	if previous != nil && previous.Filename != path {
		if err := s.fileService.DeleteFile(ctx, previous.Filename); err != nil {
			slog.Warn("failed to delete replaced receipt", slog.String("path", previous.Filename), slog.Any("error", err))
		}
	}
	return expense.NewExpenseResponse(updated), nil
}

// ProcessRecurring materialises every missed occurrence up to asOf. Each template is
// advanced in the same unit of work as the entries it produced.
func (s *ExpenseServiceImpl) ProcessRecurring(ctx context.Context, asOf time.Time) (int, error) {
	templates, err := s.expenseRepo.ListDueRecurring(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list recurring expenses: %w", err)
	}

	created := 0
	for _, tmpl := range templates {
		n := 0
		err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			for tmpl.IsDue(asOf) {
				if _, err := s.expenseRepo.Create(ctx, tmpl.Occurrence()); err != nil {
					return err
				}
				n++
			}
			_, err := s.expenseRepo.Update(ctx, tmpl)
			return err
		})
		if err != nil {
			slog.Error("recurring expense failed", slog.String("expense_id", tmpl.ID), slog.Any("error", err))
			continue
		}
		created += n
	}
	return created, nil
}
