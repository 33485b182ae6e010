package memory

import (
	"context"
	"sort"
	"time"

	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.findPeriod(p.EmployeeID, p.Month, p.Year); ok {
		return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
	}
	now := r.s.now()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.payrolls[p.ID] = p
	return r.join(p), nil
}

func (r *payrollRepository) ReplacePending(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.findPeriod(p.EmployeeID, p.Month, p.Year)
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if existing.Status != payroll.StatusPending {
		return payroll.Payroll{}, payroll.ErrPayrollNotEditable
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.payrolls[p.ID] = p
	return r.join(p), nil
}

func (r *payrollRepository) findPeriod(employeeID string, month, year int) (payroll.Payroll, bool) {
	for _, p := range r.s.payrolls {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return p, true
		}
	}
	return payroll.Payroll{}, false
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.join(p), nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.findPeriod(employeeID, month, year)
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return r.join(p), nil
}

func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll, expected payroll.Status) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.payrolls[p.ID]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if existing.Status != expected {
		return payroll.Payroll{}, payroll.ErrStatusChanged
	}
	p.EmployeeID = existing.EmployeeID
	p.Month = existing.Month
	p.Year = existing.Year
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.payrolls[p.ID] = p
	return r.join(p), nil
}

func (r *payrollRepository) MarkPayslipGenerated(ctx context.Context, id, path string) (payroll.Payroll, error) {
	return r.patch(id, func(p *payroll.Payroll) {
		p.PayslipGenerated = true
		p.PayslipPath = &path
	})
}

func (r *payrollRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) (payroll.Payroll, error) {
	return r.patch(id, func(p *payroll.Payroll) {
		p.EmailSent = true
		p.EmailSentAt = &at
	})
}

func (r *payrollRepository) patch(id string, fn func(p *payroll.Payroll)) (payroll.Payroll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	fn(&p)
	p.UpdatedAt = r.s.now()
	r.s.payrolls[id] = p
	return r.join(p), nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []payroll.Payroll
	for _, p := range r.s.payrolls {
		p = r.join(p)
		if filter.Search != nil && *filter.Search != "" &&
			!containsFold(p.EmployeeName, *filter.Search) && !containsFold(p.EmployeeCode, *filter.Search) {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		if filter.Department != nil && p.Department != *filter.Department {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		matched = append(matched, p)
	}

	sortBy(matched, filter.SortOrder, payrollLess(filter.SortBy))
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func payrollLess(column string) func(a, b payroll.Payroll) bool {
	switch column {
	case "created_at":
		return func(a, b payroll.Payroll) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "net_salary":
		return func(a, b payroll.Payroll) bool { return a.NetSalary.LessThan(b.NetSalary) }
	case "gross_salary":
		return func(a, b payroll.Payroll) bool { return a.GrossSalary.LessThan(b.GrossSalary) }
	default:
		return periodLess
	}
}

func periodLess(a, b payroll.Payroll) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.EmployeeCode < b.EmployeeCode
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		if (year == 0 || p.Year == year) && (month == 0 || p.Month == month) {
			out = append(out, r.join(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return periodLess(out[i], out[j]) })
	return out, nil
}

func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]payroll.Payroll, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []payroll.Payroll
	for _, p := range r.s.payrolls {
		if p.EmployeeID == employeeID && (year == 0 || p.Year == year) {
			out = append(out, r.join(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return periodLess(out[i], out[j]) })
	return out, nil
}

func (r *payrollRepository) join(p payroll.Payroll) payroll.Payroll {
	if e, ok := r.s.employees[p.EmployeeID]; ok {
		p.EmployeeCode = e.EmployeeCode
		p.EmployeeName = e.FullName()
		p.EmployeeEmail = e.Email
		p.Department = string(e.Department)
		p.Designation = string(e.Role)
	}
	return p
}
