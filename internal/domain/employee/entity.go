package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Role             Role
	Department       Department
	JoiningDate      time.Time
	Status           Status
	Salary           Salary
	BankDetails      BankDetails
	Address          Address
	EmergencyContact EmergencyContact
	WorkSchedule     WorkSchedule
	Documents        []Document
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// TotalSalary is the standing monthly take-home: basic + allowances - deductions.
func (e Employee) TotalSalary() decimal.Decimal {
	return e.Salary.Basic.Add(e.Salary.Allowances.Total()).Sub(e.Salary.Deductions.Total())
}

type Status string

const (
	StatusActive     Status = "Active"
	StatusInactive   Status = "Inactive"
	StatusTerminated Status = "Terminated"
)

var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusTerminated)}

type Role string

const (
	RoleManager    Role = "Manager"
	RoleDeveloper  Role = "Developer"
	RoleDesigner   Role = "Designer"
	RoleHR         Role = "HR"
	RoleAccountant Role = "Accountant"
	RoleAdmin      Role = "Admin"
	RoleOther      Role = "Other"
)

var Roles = []string{"Manager", "Developer", "Designer", "HR", "Accountant", "Admin", "Other"}

type Department string

var Departments = []string{"IT", "HR", "Finance", "Marketing", "Sales", "Operations", "Other"}

type Salary struct {
	Basic      decimal.Decimal
	Allowances Allowances
	Deductions Deductions
}

type Allowances struct {
	HRA     decimal.Decimal `json:"hra"`
	DA      decimal.Decimal `json:"da"`
	TA      decimal.Decimal `json:"ta"`
	Medical decimal.Decimal `json:"medical"`
	Other   decimal.Decimal `json:"other"`
}

func (a Allowances) Total() decimal.Decimal {
	return decimal.Sum(a.HRA, a.DA, a.TA, a.Medical, a.Other)
}

func (a Allowances) IsNegative() bool {
	return a.HRA.IsNegative() || a.DA.IsNegative() || a.TA.IsNegative() || a.Medical.IsNegative() || a.Other.IsNegative()
}

// Deductions are the employee's standing monthly deductions.
type Deductions struct {
	PF    decimal.Decimal `json:"pf"`
	ESI   decimal.Decimal `json:"esi"`
	Tax   decimal.Decimal `json:"tax"`
	Other decimal.Decimal `json:"other"`
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.PF, d.ESI, d.Tax, d.Other)
}

func (d Deductions) IsNegative() bool {
	return d.PF.IsNegative() || d.ESI.IsNegative() || d.Tax.IsNegative() || d.Other.IsNegative()
}

type BankDetails struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
	Branch        string `json:"branch"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type WorkSchedule struct {
	WorkingHours float64 `json:"working_hours"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
}

type DocumentType string

var DocumentTypes = []string{"ID Proof", "Salary Slip", "Bank Statement", "Other"}

type Document struct {
	ID           string       `json:"id"`
	Type         DocumentType `json:"type"`
	Filename     string       `json:"filename"`
	OriginalName string       `json:"original_name"`
	UploadDate   time.Time    `json:"upload_date"`
}

// Stats is the aggregate view served by the employee stats endpoint.
type Stats struct {
	TotalEmployees      int
	ActiveEmployees     int
	InactiveEmployees   int
	TerminatedEmployees int
	TotalSalary         decimal.Decimal
	ByDepartment        []GroupCount
	ByRole              []GroupCount
}

type GroupCount struct {
	Name        string
	Count       int
	TotalSalary decimal.Decimal
}
