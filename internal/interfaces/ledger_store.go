package interfaces

import (
	"context"

	"github.com/jrose1022/SubTrack/internal/models"
)

// TransactionOrder selects the sort applied by ListTransactions.
type TransactionOrder int

const (
	OrderByCreatedDesc TransactionOrder = iota
	OrderByDueDateDesc
)

type TransactionFilter struct {
	AuthID   string // empty matches every user
	OpenOnly bool   // only entries with a positive balance
	OrderBy  TransactionOrder
}

type LedgerStore interface {
	// InsertTransactions writes the whole batch or nothing.
	InsertTransactions(ctx context.Context, txs []models.Transaction) error
	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	// UpdatePayment persists the payment fields of tx only if the stored row is
	// still at expectedVersion, returning apperrors.ErrConflict otherwise.
	UpdatePayment(ctx context.Context, tx models.Transaction, expectedVersion int64) error
}
