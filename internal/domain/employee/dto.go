package employee

import (
	"io"
	"time"

	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY DTOs ==========

type SalaryRequest struct {
	Basic      decimal.Decimal `json:"basic"`
	Allowances Allowances      `json:"allowances"`
	Deductions Deductions      `json:"deductions"`
}

func (s SalaryRequest) validate(errs *validator.ValidationErrors, prefix string) {
	if s.Basic.IsNegative() {
		errs.Add(prefix+".basic", "must be non-negative")
	}
	if s.Allowances.IsNegative() {
		errs.Add(prefix+".allowances", "must be non-negative")
	}
	if s.Deductions.IsNegative() {
		errs.Add(prefix+".deductions", "must be non-negative")
	}
}

func (s SalaryRequest) ToSalary() Salary {
	return Salary{Basic: s.Basic, Allowances: s.Allowances, Deductions: s.Deductions}
}

// ========== CREATE / UPDATE ==========

type CreateEmployeeRequest struct {
	EmployeeCode     string           `json:"employee_id,omitempty"`
	FirstName        string           `json:"first_name" validate:"required,max=50"`
	LastName         string           `json:"last_name" validate:"required,max=50"`
	Email            string           `json:"email" validate:"required,email"`
	Phone            string           `json:"phone" validate:"required"`
	Role             string           `json:"role,omitempty" validate:"omitempty,oneof=Manager Developer Designer HR Accountant Admin Other"`
	Department       string           `json:"department,omitempty" validate:"omitempty,oneof=IT HR Finance Marketing Sales Operations Other"`
	JoiningDate      string           `json:"joining_date,omitempty"` // YYYY-MM-DD, defaults to today
	Status           string           `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive Terminated"`
	Salary           SalaryRequest    `json:"salary"`
	BankDetails      BankDetails      `json:"bank_details"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	WorkSchedule     *WorkSchedule    `json:"work_schedule,omitempty"`

	// ApplyStatutoryDeductions derives pf, esi and tax from the payroll settings
	// instead of using the values in Salary.Deductions.
	ApplyStatutoryDeductions bool `json:"apply_statutory_deductions,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.EmployeeCode != "" && !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_id", "must look like EMP123456")
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "must be a valid phone number")
	}
	if r.JoiningDate != "" {
		if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
			errs.Add("joining_date", "must be in YYYY-MM-DD format")
		}
	}
	r.Salary.validate(&errs, "salary")
	if r.WorkSchedule != nil {
		validateWorkSchedule(*r.WorkSchedule, &errs)
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID               string            `json:"-"`
	FirstName        *string           `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName         *string           `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Email            *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string           `json:"phone,omitempty"`
	Role             *string           `json:"role,omitempty" validate:"omitempty,oneof=Manager Developer Designer HR Accountant Admin Other"`
	Department       *string           `json:"department,omitempty" validate:"omitempty,oneof=IT HR Finance Marketing Sales Operations Other"`
	JoiningDate      *string           `json:"joining_date,omitempty"`
	Status           *string           `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive Terminated"`
	Salary           *SalaryRequest    `json:"salary,omitempty"`
	BankDetails      *BankDetails      `json:"bank_details,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	WorkSchedule     *WorkSchedule     `json:"work_schedule,omitempty"`

	ApplyStatutoryDeductions bool `json:"apply_statutory_deductions,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "must be a valid phone number")
	}
	if r.JoiningDate != nil {
		if _, ok := validator.IsValidDate(*r.JoiningDate); !ok {
			errs.Add("joining_date", "must be in YYYY-MM-DD format")
		}
	}
	if r.Salary != nil {
		r.Salary.validate(&errs, "salary")
	}
	if r.WorkSchedule != nil {
		validateWorkSchedule(*r.WorkSchedule, &errs)
	}

	return errs.OrNil()
}

func validateWorkSchedule(ws WorkSchedule, errs *validator.ValidationErrors) {
	if ws.WorkingHours <= 0 || ws.WorkingHours > 24 {
		errs.Add("work_schedule.working_hours", "must be between 0 and 24")
	}
	if ws.StartTime != "" && !validator.IsValidClock(ws.StartTime) {
		errs.Add("work_schedule.start_time", "must be HH:MM")
	}
	if ws.EndTime != "" && !validator.IsValidClock(ws.EndTime) {
		errs.Add("work_schedule.end_time", "must be HH:MM")
	}
}

type UploadDocumentRequest struct {
	EmployeeID string
	Type       string
	Filename   string
	File       io.Reader
}

func (r *UploadDocumentRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(r.Type, DocumentTypes) {
		errs.Add("type", "must be one of: ID Proof, Salary Slip, Bank Statement, Other")
	}
	if validator.IsEmpty(r.Filename) || r.File == nil {
		errs.Add("document", "file is required")
	}
	return errs.OrNil()
}

// ========== LIST ==========

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // first_name, last_name, employee_id, joining_date, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

var employeeSortColumns = []string{"first_name", "last_name", "employee_id", "email", "joining_date", "created_at"}

func (f *EmployeeFilter) Validate() error {
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
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: Active, Inactive, Terminated")
	}
	if f.SortBy == "" {
		f.SortBy = "first_name"
	}
	if !validator.IsInSlice(f.SortBy, employeeSortColumns) {
		errs.Add("sort_by", "unsupported sort column")
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "must be asc or desc")
	}

	return errs.OrNil()
}

// ========== RESPONSES ==========

type SalaryResponse struct {
	Basic      decimal.Decimal `json:"basic"`
	Allowances Allowances      `json:"allowances"`
	Deductions Deductions      `json:"deductions"`
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_id"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	FullName         string           `json:"full_name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Role             string           `json:"role,omitempty"`
	Department       string           `json:"department,omitempty"`
	JoiningDate      string           `json:"joining_date"`
	Status           string           `json:"status"`
	Salary           SalaryResponse   `json:"salary"`
	TotalSalary      decimal.Decimal  `json:"total_salary"`
	BankDetails      BankDetails      `json:"bank_details"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	WorkSchedule     WorkSchedule     `json:"work_schedule"`
	Documents        []Document       `json:"documents,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Phone:        e.Phone,
		Role:         string(e.Role),
		Department:   string(e.Department),
		JoiningDate:  e.JoiningDate.Format("2006-01-02"),
		Status:       string(e.Status),
		Salary: SalaryResponse{
			Basic:      e.Salary.Basic,
			Allowances: e.Salary.Allowances,
			Deductions: e.Salary.Deductions,
		},
		TotalSalary:      e.TotalSalary(),
		BankDetails:      e.BankDetails,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		WorkSchedule:     e.WorkSchedule,
		Documents:        e.Documents,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type StatsOverview struct {
	TotalEmployees      int             `json:"total_employees"`
	ActiveEmployees     int             `json:"active_employees"`
	InactiveEmployees   int             `json:"inactive_employees"`
	TerminatedEmployees int             `json:"terminated_employees"`
	TotalSalary         decimal.Decimal `json:"total_salary"`
}

type GroupCountResponse struct {
	Name        string          `json:"name"`
	Count       int             `json:"count"`
	TotalSalary decimal.Decimal `json:"total_salary"`
}

type StatsResponse struct {
	Overview     StatsOverview        `json:"overview"`
	ByDepartment []GroupCountResponse `json:"by_department"`
	ByRole       []GroupCountResponse `json:"by_role"`
}
