package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("employee with this email already exists")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidDocument    = errors.New("invalid document upload")
	ErrEmployeeInactive   = errors.New("employee is not active")
)
