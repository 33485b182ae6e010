package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee hard-deletes the employee and their stored documents.
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)

	UploadDocument(ctx context.Context, req UploadDocumentRequest) (EmployeeResponse, error)
	DeleteDocument(ctx context.Context, employeeID, documentID string) error
}
