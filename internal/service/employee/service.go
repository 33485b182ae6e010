package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
	"github.com/officehr/payroll-backend-go/internal/service/file"
)

const codeAttempts = 5

type EmployeeServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	settingsService settings.SettingsService
	fileService     file.FileService
	now             func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	settingsService settings.SettingsService,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:    employeeRepo,
		settingsService: settingsService,
		fileService:     fileService,
		now:             time.Now,
	}
}

func newEmployeeCode() string {
	return fmt.Sprintf("EMP%06d", rand.IntN(1000000))
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	joiningDate := s.now().UTC().Truncate(24 * time.Hour)
	if req.JoiningDate != "" {
		joiningDate, _ = validator.IsValidDate(req.JoiningDate)
	}

	newEmployee := employee.Employee{
		EmployeeCode:     req.EmployeeCode,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Role:             employee.Role(valueOr(req.Role, string(employee.RoleOther))),
		Department:       employee.Department(valueOr(req.Department, "Other")),
		JoiningDate:      joiningDate,
		Status:           employee.Status(valueOr(req.Status, string(employee.StatusActive))),
		Salary:           req.Salary.ToSalary(),
		BankDetails:      req.BankDetails,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		WorkSchedule:     defaultWorkSchedule(cfg),
		Documents:        []employee.Document{},
	}
	if req.WorkSchedule != nil {
		newEmployee.WorkSchedule = *req.WorkSchedule
	}
	if req.ApplyStatutoryDeductions {
		applyStatutory(&newEmployee.Salary, cfg.Payroll)
	}

	// a generated code may collide; retry with a fresh one
	generateCode := newEmployee.EmployeeCode == ""
	for attempt := 1; ; attempt++ {
		if generateCode {
			newEmployee.EmployeeCode = newEmployeeCode()
		}
		created, err := s.employeeRepo.Create(ctx, newEmployee)
		if err == nil {
			slog.Info("employee created", slog.String("employee_id", created.ID), slog.String("employee_code", created.EmployeeCode))
			return employee.NewEmployeeResponse(created), nil
		}
		if !generateCode || !errors.Is(err, employee.ErrEmployeeCodeExists) || attempt == codeAttempts {
			return employee.EmployeeResponse{}, err
		}
	}
}

func defaultWorkSchedule(cfg settings.Settings) employee.WorkSchedule {
	return employee.WorkSchedule{
		WorkingHours: cfg.Payroll.DefaultWorkingHours,
		StartTime:    cfg.Attendance.WorkStartTime,
		EndTime:      cfg.Attendance.WorkEndTime,
	}
}

func applyStatutory(salary *employee.Salary, cfg settings.PayrollConfig) {
	st := cfg.StatutoryDeductions(salary.Basic, salary.Allowances.Total())
	salary.Deductions.PF = st.PF
	salary.Deductions.ESI = st.ESI
	salary.Deductions.Tax = st.Tax
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Role != nil {
		emp.Role = employee.Role(*req.Role)
	}
	if req.Department != nil {
		emp.Department = employee.Department(*req.Department)
	}
	if req.JoiningDate != nil {
		emp.JoiningDate, _ = validator.IsValidDate(*req.JoiningDate)
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
	if req.Salary != nil {
		emp.Salary = req.Salary.ToSalary()
	}
	if req.BankDetails != nil {
		emp.BankDetails = *req.BankDetails
	}
	if req.Address != nil {
		emp.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		emp.EmergencyContact = *req.EmergencyContact
	}
	if req.WorkSchedule != nil {
		emp.WorkSchedule = *req.WorkSchedule
	}
	if req.ApplyStatutoryDeductions {
		cfg, err := s.settingsService.Load(ctx)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		applyStatutory(&emp.Salary, cfg.Payroll)
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	for _, doc := range emp.Documents {
		if err := s.fileService.DeleteFile(ctx, doc.Filename); err != nil {
			slog.Warn("failed to delete employee document", slog.String("employee_id", id), slog.String("path", doc.Filename), slog.Any("error", err))
		}
	}
	slog.Info("employee deleted", slog.String("employee_id", id), slog.String("employee_code", emp.EmployeeCode))
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetStats implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetStats(ctx context.Context) (employee.StatsResponse, error) {
	stats, err := s.employeeRepo.GetStats(ctx)
	if err != nil {
		return employee.StatsResponse{}, fmt.Errorf("failed to get employee stats: %w", err)
	}

	return employee.StatsResponse{
		Overview: employee.StatsOverview{
			TotalEmployees:      stats.TotalEmployees,
			ActiveEmployees:     stats.ActiveEmployees,
			InactiveEmployees:   stats.InactiveEmployees,
			TerminatedEmployees: stats.TerminatedEmployees,
			TotalSalary:         stats.TotalSalary,
		},
		ByDepartment: toGroupResponses(stats.ByDepartment),
		ByRole:       toGroupResponses(stats.ByRole),
	}, nil
}

func toGroupResponses(groups []employee.GroupCount) []employee.GroupCountResponse {
	out := make([]employee.GroupCountResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, employee.GroupCountResponse{Name: g.Name, Count: g.Count, TotalSalary: g.TotalSalary})
	}
	return out
}

// UploadDocument implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadDocument(ctx context.Context, req employee.UploadDocumentRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	path, err := s.fileService.UploadDocument(ctx, req.EmployeeID, req.File, req.Filename, req.Type)
	if err != nil {
		if errors.Is(err, file.ErrUnsupportedFileType) {
			return employee.EmployeeResponse{}, fmt.Errorf("%w: %v", employee.ErrInvalidDocument, err)
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to store document: %w", err)
	}

	doc := employee.Document{
		ID:           uuid.NewString(),
		Type:         employee.DocumentType(req.Type),
		Filename:     path,
		OriginalName: req.Filename,
		UploadDate:   s.now(),
	}
	if err := s.employeeRepo.AddDocument(ctx, req.EmployeeID, doc); err != nil {
		if delErr := s.fileService.DeleteFile(ctx, path); delErr != nil {
			slog.Warn("failed to clean up orphaned document", slog.String("path", path), slog.Any("error", delErr))
		}
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, req.EmployeeID)
}

// DeleteDocument implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteDocument(ctx context.Context, employeeID, documentID string) error {
	doc, err := s.employeeRepo.RemoveDocument(ctx, employeeID, documentID)
	if err != nil {
		return err
	}
	if err := s.fileService.DeleteFile(ctx, doc.Filename); err != nil {
		slog.Warn("failed to delete document file", slog.String("path", doc.Filename), slog.Any("error", err))
	}
	return nil
}
