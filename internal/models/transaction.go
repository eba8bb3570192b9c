package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment state of a ledger entry.
type Status string

const (
	StatusUnpaid  Status = "Unpaid"
	StatusPending Status = "Pending"
	StatusPartial Status = "Partial"
	StatusPaid    Status = "Paid"
)

// PaymentMethodPending marks an entry that has not received any payment yet.
const PaymentMethodPending = "Pending"

// Transaction is one dues obligation owed by a homeowner (a row of the financing table).
type Transaction struct {
	ID            string          `json:"id"`
	AuthID        string          `json:"auth_id"` // owning user's identity reference
	Type          string          `json:"type"`    // free-text label, e.g. "Monthly Dues"
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Balance       decimal.Decimal `json:"balance"`
	Status        Status          `json:"status"`
	StartDate     time.Time       `json:"start_date"`
	DueDate       time.Time       `json:"due_date"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	Version       int64           `json:"version"` // bumped on every update, used for compare-and-swap
}

// Overdue reports whether the entry still carries a balance after its due date.
func (t Transaction) Overdue(today time.Time) bool {
	if !t.Balance.IsPositive() {
		return false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return t.DueDate.Before(start)
}

// DeriveStatus is the only place a status is computed from amounts.
// Nothing left to pay is Paid, something paid but not all is Partial,
// nothing paid yet is Unpaid.
func DeriveStatus(total, paid decimal.Decimal) Status {
	balance := total.Sub(paid)
	switch {
	case !balance.IsPositive():
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}
