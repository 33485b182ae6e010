package expense

import (
	"io"
	"time"

	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CREATE / UPDATE ==========

type RecurrenceRequest struct {
	IsRecurring bool    `json:"is_recurring"`
	Frequency   string  `json:"frequency,omitempty" validate:"omitempty,oneof=Monthly Quarterly Yearly"`
	NextDueDate *string `json:"next_due_date,omitempty"`
}

type CreateExpenseRequest struct {
	Title         string             `json:"title" validate:"required,max=200"`
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=1000"`
	Amount        decimal.Decimal    `json:"amount"`
	Type          string             `json:"type" validate:"required,oneof=Expense Revenue"`
	Category      string             `json:"category" validate:"required"`
	Vendor        Vendor             `json:"vendor"`
	Date          string             `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	PaymentMethod string             `json:"payment_method,omitempty"`
	Status        string             `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid Cancelled"`
	Tags          []string           `json:"tags,omitempty"`
	Recurring     *RecurrenceRequest `json:"recurring,omitempty"`
	CreatedBy     *string            `json:"-"`
}

func (r *CreateExpenseRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if r.Category != "" && !validator.IsInSlice(r.Category, Categories) {
		errs.Add("category", "must be a known expense category")
	}
	if r.PaymentMethod != "" && !validator.IsInSlice(r.PaymentMethod, PaymentMethods) {
		errs.Add("payment_method", "must be one of: Cash, Bank Transfer, Credit Card, Check, Online Payment")
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "must be in YYYY-MM-DD format")
		}
	}
	if r.Vendor.Email != "" && !validator.IsValidEmail(r.Vendor.Email) {
		errs.Add("vendor.email", "must be a valid email")
	}
	validateRecurrence(r.Recurring, &errs)

	return errs.OrNil()
}

type UpdateExpenseRequest struct {
	ID            string             `json:"-"`
	Title         *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=1000"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	Type          *string            `json:"type,omitempty" validate:"omitempty,oneof=Expense Revenue"`
	Category      *string            `json:"category,omitempty"`
	Vendor        *Vendor            `json:"vendor,omitempty"`
	Date          *string            `json:"date,omitempty"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	Status        *string            `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid Cancelled"`
	Tags          []string           `json:"tags,omitempty"`
	Recurring     *RecurrenceRequest `json:"recurring,omitempty"`
	ApprovedBy    *string            `json:"-"`
}

func (r *UpdateExpenseRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.Amount != nil && !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if r.Category != nil && !validator.IsInSlice(*r.Category, Categories) {
		errs.Add("category", "must be a known expense category")
	}
	if r.PaymentMethod != nil && !validator.IsInSlice(*r.PaymentMethod, PaymentMethods) {
		errs.Add("payment_method", "must be one of: Cash, Bank Transfer, Credit Card, Check, Online Payment")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "must be in YYYY-MM-DD format")
		}
	}
	if r.Vendor != nil && r.Vendor.Email != "" && !validator.IsValidEmail(r.Vendor.Email) {
		errs.Add("vendor.email", "must be a valid email")
	}
	validateRecurrence(r.Recurring, &errs)

	return errs.OrNil()
}

func validateRecurrence(r *RecurrenceRequest, errs *validator.ValidationErrors) {
	if r == nil || !r.IsRecurring {
		return
	}
	if r.NextDueDate == nil {
		errs.Add("recurring.next_due_date", "is required for recurring entries")
		return
	}
	if _, ok := validator.IsValidDate(*r.NextDueDate); !ok {
		errs.Add("recurring.next_due_date", "must be in YYYY-MM-DD format")
	}
}

// ToRecurrence converts a validated request. Frequency defaults to Monthly.
func (r *RecurrenceRequest) ToRecurrence() Recurrence {
	if r == nil || !r.IsRecurring {
		return Recurrence{Frequency: FrequencyMonthly}
	}
	rec := Recurrence{IsRecurring: true, Frequency: Frequency(r.Frequency)}
	if rec.Frequency == "" {
		rec.Frequency = FrequencyMonthly
	}
	if r.NextDueDate != nil {
		if t, ok := validator.IsValidDate(*r.NextDueDate); ok {
			rec.NextDueDate = &t
		}
	}
	return rec
}

type UploadReceiptRequest struct {
	ExpenseID   string
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

const MaxReceiptSize = 5 << 20

var receiptContentTypes = []string{"image/jpeg", "image/png", "image/gif", "application/pdf"}

func (r *UploadReceiptRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Filename) || r.File == nil {
		errs.Add("receipt", "file is required")
	}
	if r.Size > MaxReceiptSize {
		errs.Add("receipt", "must not exceed 5MB")
	}
	if r.ContentType != "" && !validator.IsInSlice(r.ContentType, receiptContentTypes) {
		errs.Add("receipt", "only image and PDF files are allowed")
	}
	return errs.OrNil()
}

// ========== LIST ==========

type ExpenseFilter struct {
	Search    *string `json:"search,omitempty"`
	Type      *string `json:"type,omitempty"`
	Category  *string `json:"category,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"` // date, amount, title, created_at
	SortOrder string `json:"sort_order"`
}

var expenseSortColumns = []string{"date", "amount", "title", "created_at"}

func (f *ExpenseFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, Types) {
		errs.Add("type", "must be Expense or Revenue")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: Pending, Paid, Cancelled")
	}
	if f.Category != nil && !validator.IsInSlice(*f.Category, Categories) {
		errs.Add("category", "must be a known expense category")
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "must be in YYYY-MM-DD format")
		}
	}
	if f.SortBy == "" {
		f.SortBy = "date"
	}
	if !validator.IsInSlice(f.SortBy, expenseSortColumns) {
		errs.Add("sort_by", "unsupported sort column")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "must be asc or desc")
	}

	return errs.OrNil()
}

// ========== RESPONSES ==========

type ExpenseResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Vendor        Vendor          `json:"vendor"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Receipt       *Receipt        `json:"receipt,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Recurring     Recurrence      `json:"recurring"`
	ApprovedBy    *string         `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Amount:        e.Amount,
		Type:          string(e.Type),
		Category:      string(e.Category),
		Vendor:        e.Vendor,
		Date:          e.Date.Format("2006-01-02"),
		PaymentMethod: string(e.PaymentMethod),
		Status:        string(e.Status),
		Receipt:       e.Receipt,
		Tags:          e.Tags,
		Recurring:     e.Recurring,
		ApprovedBy:    e.ApprovedBy,
		ApprovedAt:    e.ApprovedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

type ListExpenseResponse struct {
	Expenses   []ExpenseResponse `json:"expenses"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type OverviewResponse struct {
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	ExpenseCount      int             `json:"expense_count"`
	RevenueCount      int             `json:"revenue_count"`
}

type CategoryTotalResponse struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

type MonthTotalResponse struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Type        string          `json:"type"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

type StatsResponse struct {
	Overview   OverviewResponse        `json:"overview"`
	ByCategory []CategoryTotalResponse `json:"by_category"`
	ByMonth    []MonthTotalResponse    `json:"by_month"`
}

func NewStatsResponse(s Stats) StatsResponse {
	resp := StatsResponse{
		Overview: OverviewResponse{
			TotalExpenses:     s.Overview.TotalExpenses,
			TotalRevenue:      s.Overview.TotalRevenue,
			TotalTransactions: s.Overview.TotalTransactions,
			ExpenseCount:      s.Overview.ExpenseCount,
			RevenueCount:      s.Overview.RevenueCount,
		},
		ByCategory: make([]CategoryTotalResponse, 0, len(s.ByCategory)),
		ByMonth:    make([]MonthTotalResponse, 0, len(s.ByMonth)),
	}
	for _, c := range s.ByCategory {
		resp.ByCategory = append(resp.ByCategory, CategoryTotalResponse{Category: c.Category, TotalAmount: c.TotalAmount, Count: c.Count})
	}
	for _, m := range s.ByMonth {
		resp.ByMonth = append(resp.ByMonth, MonthTotalResponse{Year: m.Year, Month: m.Month, Type: string(m.Type), TotalAmount: m.TotalAmount, Count: m.Count})
	}
	return resp
}

type ProfitLossResponse struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	MonthName    string          `json:"month_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

func NewProfitLossResponse(p ProfitLoss) ProfitLossResponse {
	return ProfitLossResponse{
		Month:        p.Month,
		Year:         p.Year,
		MonthName:    p.MonthName,
		Revenue:      p.Revenue,
		Expenses:     p.Expenses,
		NetProfit:    p.NetProfit,
		ProfitMargin: p.ProfitMargin,
	}
}
