package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentApplied struct {
	EventID       string          `json:"event_id"`
	TransactionID string          `json:"transaction_id"`
	AuthID        string          `json:"auth_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	AppliedBy     string          `json:"applied_by"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
