package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
)

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.basic_salary,
	p.allowances, p.deductions, p.bonuses, p.attendance,
	p.overtime_pay, p.lop_amount, p.gross_salary, p.net_salary,
	p.status, p.payment_date, p.payment_method, p.transaction_id, p.remarks, p.processed_by,
	p.payslip_generated, p.payslip_path, p.email_sent, p.email_sent_at,
	p.created_at, p.updated_at,
	COALESCE(e.employee_code, ''), COALESCE(e.first_name || ' ' || e.last_name, ''),
	COALESCE(e.email, ''), COALESCE(e.department, ''), COALESCE(e.role, '')`

const payrollFrom = ` FROM payrolls p LEFT JOIN employees e ON e.id = p.employee_id `

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BasicSalary,
		&p.Allowances, &p.Deductions, &p.Bonuses, &p.Attendance,
		&p.OvertimePay, &p.LopAmount, &p.GrossSalary, &p.NetSalary,
		&p.Status, &p.PaymentDate, &p.PaymentMethod, &p.TransactionID, &p.Remarks, &p.ProcessedBy,
		&p.PayslipGenerated, &p.PayslipPath, &p.EmailSent, &p.EmailSentAt,
		&p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeCode, &p.EmployeeName, &p.EmployeeEmail, &p.Department, &p.Designation,
	)
	return p, err
}

// Create relies on payrolls_employee_period_key to reject a second record for the period,
// including one inserted concurrently.
func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			employee_id, month, year, basic_salary, allowances, deductions, bonuses, attendance,
			overtime_pay, lop_amount, gross_salary, net_salary,
			status, payment_date, payment_method, transaction_id, remarks, processed_by,
			payslip_generated, payslip_path, email_sent, email_sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		p.EmployeeID, p.Month, p.Year, p.BasicSalary, p.Allowances, p.Deductions, p.Bonuses, p.Attendance,
		p.OvertimePay, p.LopAmount, p.GrossSalary, p.NetSalary,
		p.Status, p.PaymentDate, p.PaymentMethod, p.TransactionID, p.Remarks, p.ProcessedBy,
		p.PayslipGenerated, p.PayslipPath, p.EmailSent, p.EmailSentAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "payrolls_employee_period_key") {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return r.GetByID(ctx, id)
}

// ReplacePending guards on status in the UPDATE itself, so a record paid between the
// caller's read and this write is never overwritten.
func (r *payrollRepository) ReplacePending(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			basic_salary = $4, allowances = $5, deductions = $6, bonuses = $7, attendance = $8,
			overtime_pay = $9, lop_amount = $10, gross_salary = $11, net_salary = $12,
			status = $13, payment_date = $14, payment_method = $15, transaction_id = $16,
			remarks = $17, processed_by = $18, payslip_generated = $19, payslip_path = $20,
			email_sent = $21, email_sent_at = $22, updated_at = NOW()
		WHERE employee_id = $1 AND month = $2 AND year = $3 AND status = 'Pending'
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		p.EmployeeID, p.Month, p.Year,
		p.BasicSalary, p.Allowances, p.Deductions, p.Bonuses, p.Attendance,
		p.OvertimePay, p.LopAmount, p.GrossSalary, p.NetSalary,
		p.Status, p.PaymentDate, p.PaymentMethod, p.TransactionID,
		p.Remarks, p.ProcessedBy, p.PayslipGenerated, p.PayslipPath,
		p.EmailSent, p.EmailSentAt,
	).Scan(&id)
	if err == nil {
		return r.GetByID(ctx, id)
	}
	if !errors.Is(err, pgx.ErrNoRows) && !isInvalidID(err) {
		return payroll.Payroll{}, fmt.Errorf("failed to replace payroll: %w", err)
	}

	if _, err := r.GetByEmployeePeriod(ctx, p.EmployeeID, p.Month, p.Year); err != nil {
		return payroll.Payroll{}, err
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotEditable
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+payrollFrom+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `WHERE p.employee_id = $1 AND p.month = $2 AND p.year = $3`
	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll by period: %w", err)
	}
	return p, nil
}

// Update keeps employee_id, month and year; the period never changes after creation.
func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll, expected payroll.Status) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			basic_salary = $2, allowances = $3, deductions = $4, bonuses = $5, attendance = $6,
			overtime_pay = $7, lop_amount = $8, gross_salary = $9, net_salary = $10,
			status = $11, payment_date = $12, payment_method = $13, transaction_id = $14,
			remarks = $15, processed_by = $16, payslip_generated = $17, payslip_path = $18,
			email_sent = $19, email_sent_at = $20, updated_at = NOW()
		WHERE id = $1 AND status = $21
	`
	tag, err := q.Exec(ctx, query,
		p.ID, p.BasicSalary, p.Allowances, p.Deductions, p.Bonuses, p.Attendance,
		p.OvertimePay, p.LopAmount, p.GrossSalary, p.NetSalary,
		p.Status, p.PaymentDate, p.PaymentMethod, p.TransactionID,
		p.Remarks, p.ProcessedBy, p.PayslipGenerated, p.PayslipPath,
		p.EmailSent, p.EmailSentAt, expected,
	)
	if err != nil {
		if isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return payroll.Payroll{}, err
		}
		return payroll.Payroll{}, payroll.ErrStatusChanged
	}
	return r.GetByID(ctx, p.ID)
}

func (r *payrollRepository) MarkPayslipGenerated(ctx context.Context, id, path string) (payroll.Payroll, error) {
	return r.patch(ctx, id, `payslip_generated = TRUE, payslip_path = $2`, path)
}

func (r *payrollRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) (payroll.Payroll, error) {
	return r.patch(ctx, id, `email_sent = TRUE, email_sent_at = $2`, at)
}

func (r *payrollRepository) patch(ctx context.Context, id, set string, arg interface{}) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payrolls SET `+set+`, updated_at = NOW() WHERE id = $1`, id, arg)
	if err != nil {
		if isInvalidID(err) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"((e.first_name || ' ' || e.last_name) ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id::text = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+payrollFrom+"WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	dir := sortDirection(filter.SortOrder)
	var orderBy string
	switch filter.SortBy {
	case "created_at":
		orderBy = "p.created_at " + dir
	case "net_salary":
		orderBy = "p.net_salary " + dir
	case "gross_salary":
		orderBy = "p.gross_salary " + dir
	default:
		orderBy = fmt.Sprintf("p.year %[1]s, p.month %[1]s, e.employee_code %[1]s", dir)
	}

	query := fmt.Sprintf(`SELECT %s%sWHERE %s ORDER BY %s, p.id LIMIT $%d OFFSET $%d`,
		payrollColumns, payrollFrom, whereClause, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	payrolls, err := collectPayrolls(rows)
	if err != nil {
		return nil, 0, err
	}
	return payrolls, total, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE ($1::int = 0 OR p.month = $1::int) AND ($2::int = 0 OR p.year = $2::int)
		ORDER BY p.year, p.month, e.employee_code`
	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls by period: %w", err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE p.employee_id = $1 AND ($2::int = 0 OR p.year = $2::int)
		ORDER BY p.year, p.month`
	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list payrolls by employee: %w", err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func collectPayrolls(rows pgx.Rows) ([]payroll.Payroll, error) {
	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payrolls: %w", err)
	}
	return payrolls, nil
}
