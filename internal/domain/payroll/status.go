package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusCancelled},
}

// CanTransitionTo reports whether s may move to next. Cancelled is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type StatusChange struct {
	Status        Status
	PaymentDate   *time.Time
	PaymentMethod *PaymentMethod
	TransactionID *string
	Remarks       *string
	ProcessedBy   *string
}

// NewTransactionID is replaced in tests.
var NewTransactionID = func() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// ApplyStatus moves the record to change.Status. Paying a record fills in the
// payment date and transaction id when the caller did not.
func (p *Payroll) ApplyStatus(change StatusChange, now time.Time) error {
	if !p.Status.CanTransitionTo(change.Status) {
		return ErrInvalidStatusTransition
	}

	if change.PaymentMethod != nil {
		p.PaymentMethod = *change.PaymentMethod
	}
	if change.Remarks != nil {
		p.Remarks = change.Remarks
	}
	if change.ProcessedBy != nil {
		p.ProcessedBy = change.ProcessedBy
	}

	if change.Status == StatusPaid {
		switch {
		case change.PaymentDate != nil:
			p.PaymentDate = change.PaymentDate
		case p.PaymentDate == nil:
			p.PaymentDate = &now
		}
		switch {
		case change.TransactionID != nil && *change.TransactionID != "":
			p.TransactionID = change.TransactionID
		case p.TransactionID == nil:
			id := NewTransactionID()
			p.TransactionID = &id
		}
		if p.PaymentMethod == "" {
			p.PaymentMethod = PaymentBankTransfer
		}
	}

	p.Status = change.Status
	p.Recalculate()
	return nil
}
