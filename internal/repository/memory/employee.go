package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/officehr/payroll-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *employeeRepository) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employees {
		if e.EmployeeCode == code {
			return cloneEmployee(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(newEmployee, ""); err != nil {
		return employee.Employee{}, err
	}
	now := r.s.now()
	newEmployee.ID = newID()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.s.employees[newEmployee.ID] = cloneEmployee(newEmployee)
	return newEmployee, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err := r.checkUnique(e, e.ID); err != nil {
		return employee.Employee{}, err
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.s.now()
	r.s.employees[e.ID] = cloneEmployee(e)
	return e, nil
}

func (r *employeeRepository) checkUnique(e employee.Employee, selfID string) error {
	for id, other := range r.s.employees {
		if id == selfID {
			continue
		}
		if other.EmployeeCode == e.EmployeeCode {
			return employee.ErrEmployeeCodeExists
		}
		if strings.EqualFold(other.Email, e.Email) {
			return employee.ErrEmailExists
		}
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.s.employees, id)
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []employee.Employee
	for _, e := range r.s.employees {
		if filter.Search != nil && *filter.Search != "" {
			q := *filter.Search
			if !containsFold(e.FirstName, q) && !containsFold(e.LastName, q) &&
				!containsFold(e.Email, q) && !containsFold(e.EmployeeCode, q) {
				continue
			}
		}
		if filter.Department != nil && string(e.Department) != *filter.Department {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		matched = append(matched, cloneEmployee(e))
	}

	sortBy(matched, filter.SortOrder, employeeLess(filter.SortBy))
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func employeeLess(column string) func(a, b employee.Employee) bool {
	switch column {
	case "last_name":
		return func(a, b employee.Employee) bool { return a.LastName < b.LastName }
	case "employee_id":
		return func(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode }
	case "email":
		return func(a, b employee.Employee) bool { return a.Email < b.Email }
	case "joining_date":
		return func(a, b employee.Employee) bool { return a.JoiningDate.Before(b.JoiningDate) }
	case "created_at":
		return func(a, b employee.Employee) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b employee.Employee) bool { return a.FirstName < b.FirstName }
	}
}

func (r *employeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var active []employee.Employee
	for _, e := range r.s.employees {
		if e.Status == employee.StatusActive {
			active = append(active, cloneEmployee(e))
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].EmployeeCode < active[j].EmployeeCode })
	return active, nil
}

func (r *employeeRepository) GetStats(ctx context.Context) (employee.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]employee.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		all = append(all, e)
	}
	return employee.BuildStats(all), nil
}

func (r *employeeRepository) AddDocument(ctx context.Context, employeeID string, doc employee.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Documents = append(append([]employee.Document{}, e.Documents...), doc)
	e.UpdatedAt = r.s.now()
	r.s.employees[employeeID] = e
	return nil
}

func (r *employeeRepository) RemoveDocument(ctx context.Context, employeeID, documentID string) (employee.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[employeeID]
	if !ok {
		return employee.Document{}, employee.ErrEmployeeNotFound
	}
	for i, d := range e.Documents {
		if d.ID == documentID {
			docs := append([]employee.Document{}, e.Documents[:i]...)
			e.Documents = append(docs, e.Documents[i+1:]...)
			e.UpdatedAt = r.s.now()
			r.s.employees[employeeID] = e
			return d, nil
		}
	}
	return employee.Document{}, employee.ErrDocumentNotFound
}

func cloneEmployee(e employee.Employee) employee.Employee {
	if e.Documents != nil {
		e.Documents = append([]employee.Document(nil), e.Documents...)
	}
	return e
}
