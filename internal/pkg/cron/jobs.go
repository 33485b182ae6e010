package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/officehr/payroll-backend-go/internal/config"
	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
)

const (
	JobPayrollAutoGenerate = "payroll.auto_generate"
	JobMarkAbsent          = "attendance.mark_absent"
	JobRecurringExpenses   = "expense.recurring"
)

// Publisher receives a notification after each job run.
type Publisher interface {
	Broadcast(name string, data interface{})
}

// Jobs holds the periodic tasks of the payroll system.
type Jobs struct {
	payrollService    payroll.PayrollService
	attendanceService attendance.AttendanceService
	expenseService    expense.ExpenseService
	loc               *time.Location
	now               func() time.Time
	publisher         Publisher
}

func NewJobs(
	payrollService payroll.PayrollService,
	attendanceService attendance.AttendanceService,
	expenseService expense.ExpenseService,
	loc *time.Location,
) *Jobs {
	return &Jobs{
		payrollService:    payrollService,
		attendanceService: attendanceService,
		expenseService:    expenseService,
		loc:               loc,
		now:               time.Now,
	}
}

// PublishTo sends job results to p.
func (j *Jobs) PublishTo(p Publisher) {
	j.publisher = p
}

func (j *Jobs) publish(name string, data interface{}) {
	if j.publisher != nil {
		j.publisher.Broadcast(name, data)
	}
}

func (j *Jobs) RegisterJobs(scheduler *Scheduler, cfg config.CronConfig) error {
	if cfg.AutoGeneratePayroll {
		if err := scheduler.AddJob(JobPayrollAutoGenerate, cfg.PayrollSpec, j.GeneratePreviousMonthPayroll); err != nil {
			return fmt.Errorf("register %s: %w", JobPayrollAutoGenerate, err)
		}
	}
	if err := scheduler.AddJob(JobMarkAbsent, cfg.MarkAbsentSpec, j.MarkAbsentEmployees); err != nil {
		return fmt.Errorf("register %s: %w", JobMarkAbsent, err)
	}
	if err := scheduler.AddJob(JobRecurringExpenses, cfg.RecurringSpec, j.ProcessRecurringExpenses); err != nil {
		return fmt.Errorf("register %s: %w", JobRecurringExpenses, err)
	}
	return nil
}

// GeneratePreviousMonthPayroll generates the month before the current one without force.
func (j *Jobs) GeneratePreviousMonthPayroll(ctx context.Context) error {
	prev := time.Date(j.now().In(j.loc).Year(), j.now().In(j.loc).Month(), 1, 0, 0, 0, 0, j.loc).AddDate(0, -1, 0)

	slog.Info("Cron: generating payroll", slog.Int("month", int(prev.Month())), slog.Int("year", prev.Year()))
	res, err := j.payrollService.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{
		Month: int(prev.Month()),
		Year:  prev.Year(),
	})
	if err != nil {
		return fmt.Errorf("generate payroll: %w", err)
	}

	slog.Info("Cron: payroll generation finished",
		slog.Int("generated", len(res.Generated)),
		slog.Int("conflicts", len(res.Conflicts)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("failed", len(res.Failed)),
	)
	j.publish(JobPayrollAutoGenerate, map[string]int{
		"month":     res.Month,
		"year":      res.Year,
		"generated": len(res.Generated),
		"conflicts": len(res.Conflicts),
		"skipped":   len(res.Skipped),
		"failed":    len(res.Failed),
	})
	return nil
}

func (j *Jobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now()
	today := attendance.DateOf(now, j.loc)
	created, err := j.attendanceService.MarkAbsent(ctx, now)
	if err != nil {
		return fmt.Errorf("mark absent: %w", err)
	}
	slog.Info("Cron: absent employees marked", slog.String("date", today.Format("2006-01-02")), slog.Int("count", created))
	j.publish(JobMarkAbsent, map[string]interface{}{"date": today.Format("2006-01-02"), "count": created})
	return nil
}

func (j *Jobs) ProcessRecurringExpenses(ctx context.Context) error {
	created, err := j.expenseService.ProcessRecurring(ctx, attendance.DateOf(j.now(), j.loc))
	if err != nil {
		return fmt.Errorf("process recurring expenses: %w", err)
	}
	if created > 0 {
		slog.Info("Cron: recurring expenses recorded", slog.Int("count", created))
		j.publish(JobRecurringExpenses, map[string]int{"count": created})
	}
	return nil
}
