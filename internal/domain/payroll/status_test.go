package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusPaid, false},
		{StatusPending, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplyStatus_PaidFillsPaymentDetails(t *testing.T) {
	original := NewTransactionID
	NewTransactionID = func() string { return "TXN-FIXED" }
	t.Cleanup(func() { NewTransactionID = original })

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := sampleRecord()
	p.PaymentMethod = ""

	require.NoError(t, p.ApplyStatus(StatusChange{Status: StatusPaid}, now))

	assert.Equal(t, StatusPaid, p.Status)
	require.NotNil(t, p.PaymentDate)
	assert.Equal(t, now, *p.PaymentDate)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "TXN-FIXED", *p.TransactionID)
	assert.Equal(t, PaymentBankTransfer, p.PaymentMethod)
	assert.True(t, p.NetSalary.Equal(d("79500")))
}

func TestApplyStatus_PaidKeepsCallerValues(t *testing.T) {
	paidOn := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	txn := "BANK-REF-1"
	cash := PaymentCash
	p := sampleRecord()

	err := p.ApplyStatus(StatusChange{
		Status:        StatusPaid,
		PaymentDate:   &paidOn,
		TransactionID: &txn,
		PaymentMethod: &cash,
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, paidOn, *p.PaymentDate)
	assert.Equal(t, "BANK-REF-1", *p.TransactionID)
	assert.Equal(t, PaymentCash, p.PaymentMethod)
}

func TestApplyStatus_CancelledIsTerminal(t *testing.T) {
	p := sampleRecord()
	require.NoError(t, p.ApplyStatus(StatusChange{Status: StatusCancelled}, time.Now()))

	err := p.ApplyStatus(StatusChange{Status: StatusPaid}, time.Now())

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusCancelled, p.Status)
	assert.Nil(t, p.PaymentDate)
}

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID()
	assert.Len(t, id, len("TXN-")+16)
	assert.NotEqual(t, id, NewTransactionID())
}
