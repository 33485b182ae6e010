package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeExpense Type = "Expense"
	TypeRevenue Type = "Revenue"
)

var Types = []string{string(TypeExpense), string(TypeRevenue)}

type Category string

var Categories = []string{
	"Office Supplies",
	"Utilities",
	"Rent",
	"Salaries",
	"Marketing",
	"Travel",
	"Equipment",
	"Software",
	"Insurance",
	"Legal",
	"Taxes",
	"Maintenance",
	"Food & Beverages",
	"Transportation",
	"Training",
	"Other",
}

type PaymentMethod string

var PaymentMethods = []string{"Cash", "Bank Transfer", "Credit Card", "Check", "Online Payment"}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []string{string(StatusPending), string(StatusPaid), string(StatusCancelled)}

type Frequency string

const (
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyYearly    Frequency = "Yearly"
)

var Frequencies = []string{string(FrequencyMonthly), string(FrequencyQuarterly), string(FrequencyYearly)}

// Next returns the due date one period after t.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// Expense is a ledger entry. Revenue entries share the table and the shape.
type Expense struct {
	ID            string
	Title         string
	Description   *string
	Amount        decimal.Decimal
	Type          Type
	Category      Category
	Vendor        Vendor
	Date          time.Time
	PaymentMethod PaymentMethod
	Status        Status
	Receipt       *Receipt
	Tags          []string
	Recurring     Recurrence
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Vendor struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type Receipt struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	UploadDate   time.Time `json:"upload_date"`
}

type Recurrence struct {
	IsRecurring bool       `json:"is_recurring"`
	Frequency   Frequency  `json:"frequency"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// IsDue reports whether a recurring entry should be materialised on asOf.
func (e Expense) IsDue(asOf time.Time) bool {
	return e.Recurring.IsRecurring &&
		e.Status != StatusCancelled &&
		e.Recurring.NextDueDate != nil &&
		!e.Recurring.NextDueDate.After(asOf)
}

// Occurrence returns the entry to record for the current due date and advances the
// template's next due date by one period.
func (e *Expense) Occurrence() Expense {
	due := *e.Recurring.NextDueDate
	occ := Expense{
		Title:         e.Title,
		Description:   e.Description,
		Amount:        e.Amount,
		Type:          e.Type,
		Category:      e.Category,
		Vendor:        e.Vendor,
		Date:          due,
		PaymentMethod: e.PaymentMethod,
		Status:        StatusPending,
		Tags:          e.Tags,
		CreatedBy:     e.CreatedBy,
	}
	next := e.Recurring.Frequency.Next(due)
	e.Recurring.NextDueDate = &next
	return occ
}
