// Package memory keeps every repository in process memory. It backs the
// DB_DRIVER=memory mode and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/officehr/payroll-backend-go/internal/domain/attendance"
	"github.com/officehr/payroll-backend-go/internal/domain/employee"
	"github.com/officehr/payroll-backend-go/internal/domain/expense"
	"github.com/officehr/payroll-backend-go/internal/domain/payroll"
	"github.com/officehr/payroll-backend-go/internal/domain/settings"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
)

// Store is shared by the repositories so joined reads see the same data.
type Store struct {
	mu         sync.RWMutex
	employees  map[string]employee.Employee
	attendance map[string]attendance.Attendance
	payrolls   map[string]payroll.Payroll
	expenses   map[string]expense.Expense
	users      map[string]user.User
	settings   *settings.Settings

	// txMu serializes units of work.
	txMu sync.Mutex
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:  map[string]employee.Employee{},
		attendance: map[string]attendance.Attendance{},
		payrolls:   map[string]payroll.Payroll{},
		expenses:   map[string]expense.Expense{},
		users:      map[string]user.User{},
		now:        time.Now,
	}
}

type txKey struct{}

// WithinTransaction runs fn while holding the unit-of-work lock. Nested calls reuse it.
// Writes are not rolled back on error.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func newID() string {
	return uuid.NewString()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// paginate slices items for a 1-based page.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// sortBy orders items with less, reversing it for desc.
func sortBy[T any](items []T, order string, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
