package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	settingsService settings.SettingsService
	loc             *time.Location
	now             func() time.Time
}

// NewAttendanceService creates the attendance service. loc is the company time zone
// used to decide which calendar day a punch belongs to.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsService settings.SettingsService,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		settingsService: settingsService,
		loc:             loc,
		now:             time.Now,
	}
}

func (s *AttendanceServiceImpl) rules(ctx context.Context) (attendance.Rules, settings.Settings, error) {
	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return attendance.Rules{}, settings.Settings{}, err
	}
	rules, err := attendance.RulesFromSettings(cfg, s.loc)
	if err != nil {
		return attendance.Rules{}, settings.Settings{}, err
	}
	return rules, cfg, nil
}

func (s *AttendanceServiceImpl) punchTime(raw *string) time.Time {
	if raw != nil {
		if t, ok := validator.IsValidDateTime(*raw); ok {
			return t
		}
	}
	return s.now()
}

func locationOr(location string) string {
	if location == "" {
		return attendance.DefaultLocation
	}
	return location
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return attendance.AttendanceResponse{}, attendance.ErrEmployeeNotActive
	}

	rules, _, err := s.rules(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	punch := s.punchTime(req.Time)
	date := attendance.DateOf(punch, s.loc)
	checkIn := attendance.CheckIn{Time: &punch, Location: locationOr(req.Location), IsLate: rules.IsLate(punch)}

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	switch {
	case err == nil:
		if existing.CheckIn.Time != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// a record pre-marked Absent by the end-of-day job is turned into a presence
		existing.CheckIn = checkIn
		existing.Status = attendance.StatusPresent
		if req.Remarks != nil {
			existing.Remarks = req.Remarks
		}
		updated, err := s.attendanceRepo.Update(ctx, existing)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		return attendance.NewAttendanceResponse(updated), nil
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       date,
		CheckIn:    checkIn,
		Status:     attendance.StatusPresent,
		Remarks:    req.Remarks,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("employee checked in",
		slog.String("employee_id", emp.ID),
		slog.String("date", date.Format("2006-01-02")),
		slog.Bool("late", checkIn.IsLate),
	)
	return attendance.NewAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rules, _, err := s.rules(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	punch := s.punchTime(req.Time)
	date := attendance.DateOf(punch, s.loc)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	if record.CheckIn.Time == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut.Time != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	record.CheckOut = attendance.CheckOut{Time: &punch, Location: locationOr(req.Location)}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}
	if err := record.Recalculate(rules); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.Update(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("employee checked out",
		slog.String("employee_id", req.EmployeeID),
		slog.Float64("working_hours", updated.WorkingHours),
		slog.Bool("half_day", updated.IsHalfDay),
	)
	return attendance.NewAttendanceResponse(updated), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayAttendanceResponse, error) {
	today := attendance.DateOf(s.now(), s.loc)
	records, err := s.attendanceRepo.ListByDateRange(ctx, today, today)
	if err != nil {
		return attendance.TodayAttendanceResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	resp := attendance.TodayAttendanceResponse{
		Date:         today.Format("2006-01-02"),
		TotalRecords: len(records),
		Attendance:   attendance.NewAttendanceResponses(records),
	}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent, attendance.StatusHalfDay:
			resp.PresentCount++
		case attendance.StatusAbsent:
			resp.AbsentCount++
		}
		if r.CheckIn.IsLate {
			resp.LateCount++
		}
	}
	return resp, nil
}

// GetMonthlyReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlyReport(ctx context.Context, month, year int) (attendance.MonthlyReportResponse, error) {
	q := attendance.MonthQuery{Month: month, Year: year}
	if err := q.Validate(); err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	_, cfg, err := s.rules(ctx)
	if err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return attendance.MonthlyReportResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	start, end := attendance.MonthRange(year, month)
	records, err := s.attendanceRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return attendance.MonthlyReportResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	reports := make([]attendance.EmployeeMonthlyReport, 0, len(employees))
	for _, e := range employees {
		reports = append(reports, attendance.EmployeeMonthlyReport{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			EmployeeName: e.FullName(),
			Department:   string(e.Department),
			Summary:      attendance.NewSummaryResponse(attendance.Summarize(byEmployee[e.ID])),
		})
	}

	return attendance.MonthlyReportResponse{
		Month:       month,
		Year:        year,
		WorkingDays: cfg.Attendance.WorkingDaysIn(year, time.Month(month)),
		Employees:   reports,
	}, nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, month, year int) (attendance.EmployeeAttendanceResponse, error) {
	q := attendance.MonthQuery{Month: month, Year: year}
	if err := q.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	start, end := attendance.MonthRange(year, month)
	records, err := s.attendanceRepo.ListByEmployee(ctx, employeeID, start, end)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return attendance.EmployeeAttendanceResponse{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Summary:    attendance.NewSummaryResponse(attendance.Summarize(records)),
		Records:    attendance.NewAttendanceResponses(records),
	}, nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Punches must fall on the record's own calendar day.
	var errs validator.ValidationErrors
	if req.CheckInTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckInTime)
		if !attendance.DateOf(t, s.loc).Equal(record.Date) {
			errs.Add("check_in_time", "must fall on "+record.Date.Format("2006-01-02"))
		}
		record.CheckIn.Time = &t
	}
	if req.CheckOutTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckOutTime)
		if !attendance.DateOf(t, s.loc).Equal(record.Date) {
			errs.Add("check_out_time", "must fall on "+record.Date.Format("2006-01-02"))
		}
		record.CheckOut.Time = &t
	}
	if err := errs.OrNil(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.CheckInPlace != nil {
		record.CheckIn.Location = *req.CheckInPlace
	}
	if req.CheckOutPlace != nil {
		record.CheckOut.Location = *req.CheckOutPlace
	}
	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}
	if req.ApprovedBy != nil {
		now := s.now()
		record.ApprovedBy = req.ApprovedBy
		record.ApprovedAt = &now
	}

	rules, _, err := s.rules(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	explicitStatus := record.Status
	if err := record.Recalculate(rules); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if req.Status != nil {
		record.Status = explicitStatus
	}

	updated, err := s.attendanceRepo.Update(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	return s.attendanceRepo.Delete(ctx, id)
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	day := attendance.DateOf(date, s.loc)

	cfg, err := s.settingsService.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !cfg.Attendance.IsWorkingDay(day) {
		return 0, nil
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, e := range employees {
		if e.JoiningDate.After(day) {
			continue
		}
		_, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID: e.ID,
			Date:       day,
			Status:     attendance.StatusAbsent,
		})
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			continue
		}
		if err != nil {
			return marked, fmt.Errorf("failed to mark %s absent: %w", e.EmployeeCode, err)
		}
		marked++
	}
	return marked, nil
}
