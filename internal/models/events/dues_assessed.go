package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type DuesAssessed struct {
	EventID        string          `json:"event_id"`
	TransactionIDs []string        `json:"transaction_ids"`
	AuthIDs        []string        `json:"auth_ids"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"due_date"`
	AssessedBy     string          `json:"assessed_by"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
