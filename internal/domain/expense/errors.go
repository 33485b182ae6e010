package expense

import "errors"

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidReceipt  = errors.New("only image and PDF receipts up to 5MB are allowed")
)
