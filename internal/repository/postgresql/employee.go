package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/pkg/database"
)

const employeeColumns = `
	e.id, e.employee_code, e.first_name, e.last_name, e.email, e.phone, e.role, e.department,
	e.joining_date, e.status, e.basic_salary, e.allowances, e.deductions,
	e.bank_details, e.address, e.emergency_contact, e.work_schedule, e.documents,
	e.created_at, e.updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Role, &e.Department,
		&e.JoiningDate, &e.Status, &e.Salary.Basic, &e.Salary.Allowances, &e.Salary.Deductions,
		&e.BankDetails, &e.Address, &e.EmergencyContact, &e.WorkSchedule, &e.Documents,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.id = $1`
	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.employee_code = $1`
	e, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.Documents == nil {
		newEmployee.Documents = []employee.Document{}
	}

	query := `
		INSERT INTO employees (
			employee_code, first_name, last_name, email, phone, role, department,
			joining_date, status, basic_salary, allowances, deductions,
			bank_details, address, emergency_contact, work_schedule, documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		newEmployee.EmployeeCode, newEmployee.FirstName, newEmployee.LastName, newEmployee.Email,
		newEmployee.Phone, newEmployee.Role, newEmployee.Department,
		newEmployee.JoiningDate, newEmployee.Status, newEmployee.Salary.Basic,
		newEmployee.Salary.Allowances, newEmployee.Salary.Deductions,
		newEmployee.BankDetails, newEmployee.Address, newEmployee.EmergencyContact,
		newEmployee.WorkSchedule, newEmployee.Documents,
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if uerr := employeeUniqueError(err); uerr != nil {
			return employee.Employee{}, uerr
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			employee_code = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
			role = $7, department = $8, joining_date = $9, status = $10, basic_salary = $11,
			allowances = $12, deductions = $13, bank_details = $14, address = $15,
			emergency_contact = $16, work_schedule = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at, documents
	`
	err := q.QueryRow(ctx, query,
		e.ID, e.EmployeeCode, e.FirstName, e.LastName, e.Email, e.Phone,
		e.Role, e.Department, e.JoiningDate, e.Status, e.Salary.Basic,
		e.Salary.Allowances, e.Salary.Deductions, e.BankDetails, e.Address,
		e.EmergencyContact, e.WorkSchedule,
	).Scan(&e.CreatedAt, &e.UpdatedAt, &e.Documents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if uerr := employeeUniqueError(err); uerr != nil {
			return employee.Employee{}, uerr
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return e, nil
}

func employeeUniqueError(err error) error {
	switch {
	case isUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	case isUniqueViolation(err, "employees_email_key"):
		return employee.ErrEmailExists
	}
	return nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.email ILIKE $%d OR e.employee_code ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumn := map[string]string{
		"first_name":   "e.first_name",
		"last_name":    "e.last_name",
		"employee_id":  "e.employee_code",
		"email":        "e.email",
		"joining_date": "e.joining_date",
		"created_at":   "e.created_at",
	}[filter.SortBy]
	if sortColumn == "" {
		sortColumn = "e.first_name"
	}

	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE %s ORDER BY %s %s, e.id LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, sortColumn, sortDirection(filter.SortOrder), argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees e WHERE e.status = $1 ORDER BY e.employee_code`
	rows, err := q.Query(ctx, query, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}
	return employees, nil
}

// GetStats aggregates in SQL. Group salary totals use the same take-home figure as
// employee.Employee.TotalSalary.
func (r *employeeRepositoryImpl) GetStats(ctx context.Context) (employee.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var stats employee.Stats
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Active'),
			COUNT(*) FILTER (WHERE status = 'Inactive'),
			COUNT(*) FILTER (WHERE status = 'Terminated'),
			COALESCE(SUM(basic_salary), 0)
		FROM employees
	`).Scan(&stats.TotalEmployees, &stats.ActiveEmployees, &stats.InactiveEmployees,
		&stats.TerminatedEmployees, &stats.TotalSalary)
	if err != nil {
		return employee.Stats{}, fmt.Errorf("failed to get employee stats: %w", err)
	}

	if stats.ByDepartment, err = groupEmployees(ctx, q, "department"); err != nil {
		return employee.Stats{}, err
	}
	if stats.ByRole, err = groupEmployees(ctx, q, "role"); err != nil {
		return employee.Stats{}, err
	}
	return stats, nil
}

const takeHomeExpr = `basic_salary
	+ COALESCE((allowances->>'hra')::numeric, 0) + COALESCE((allowances->>'da')::numeric, 0)
	+ COALESCE((allowances->>'ta')::numeric, 0) + COALESCE((allowances->>'medical')::numeric, 0)
	+ COALESCE((allowances->>'other')::numeric, 0)
	- COALESCE((deductions->>'pf')::numeric, 0) - COALESCE((deductions->>'esi')::numeric, 0)
	- COALESCE((deductions->>'tax')::numeric, 0) - COALESCE((deductions->>'other')::numeric, 0)`

// groupEmployees only accepts the fixed column names used above.
func groupEmployees(ctx context.Context, q database.Querier, column string) ([]employee.GroupCount, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*), COALESCE(SUM(%[2]s), 0)
		FROM employees
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC, %[1]s
	`, column, takeHomeExpr)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group employees by %s: %w", column, err)
	}
	defer rows.Close()

	groups := []employee.GroupCount{}
	for rows.Next() {
		var g employee.GroupCount
		if err := rows.Scan(&g.Name, &g.Count, &g.TotalSalary); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *employeeRepositoryImpl) AddDocument(ctx context.Context, employeeID string, doc employee.Document) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET documents = documents || jsonb_build_array($2::jsonb), updated_at = NOW()
		WHERE id = $1
	`, employeeID, doc)
	if err != nil {
		if isInvalidID(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to add document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// RemoveDocument locks the row so concurrent document edits do not overwrite each other.
func (r *employeeRepositoryImpl) RemoveDocument(ctx context.Context, employeeID, documentID string) (employee.Document, error) {
	var removed employee.Document
	err := NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var docs []employee.Document
		err := q.QueryRow(ctx, `SELECT documents FROM employees WHERE id = $1 FOR UPDATE`, employeeID).Scan(&docs)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to load documents: %w", err)
		}

		kept := make([]employee.Document, 0, len(docs))
		found := false
		for _, d := range docs {
			if d.ID == documentID && !found {
				removed = d
				found = true
				continue
			}
			kept = append(kept, d)
		}
		if !found {
			return employee.ErrDocumentNotFound
		}

		if _, err := q.Exec(ctx, `UPDATE employees SET documents = $2, updated_at = NOW() WHERE id = $1`, employeeID, kept); err != nil {
			return fmt.Errorf("failed to remove document: %w", err)
		}
		return nil
	})
	return removed, err
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}
	return "ASC"
}
