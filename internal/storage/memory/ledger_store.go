package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sort"
	"sync" // standard Go package for concurrency primitives like Mutex

	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces" // interface LedgerStore
	"github.com/jrose1022/SubTrack/internal/models"                 // domain models: Transaction
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps financing rows in a map keyed by id and is safe for concurrent use.
type MemoryLedgerStore struct {
	mu           sync.Mutex                    // protects transactions
	transactions map[string]models.Transaction // financing rows by id
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		transactions: make(map[string]models.Transaction),
	}
}

// InsertTransactions stores the batch. Ids are checked up front so a duplicate
// leaves the store untouched.
func (m *MemoryLedgerStore) InsertTransactions(ctx context.Context, txs []models.Transaction) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if _, exists := m.transactions[tx.ID]; exists {
			return apperrors.Validation("id", "transaction %s already exists", tx.ID)
		}
		if _, dup := seen[tx.ID]; dup {
			return apperrors.Validation("id", "transaction %s repeated in batch", tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}

	for _, tx := range txs {
		m.transactions[tx.ID] = tx
	}
	return nil
}

func (m *MemoryLedgerStore) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	tx, exists := m.transactions[id]
	if !exists {
		return models.Transaction{}, apperrors.NotFound("transaction", id)
	}
	return tx, nil
}

// ListTransactions returns copies of the matching rows, so callers can't modify internal state.
func (m *MemoryLedgerStore) ListTransactions(ctx context.Context, filter interfaces.TransactionFilter) ([]models.Transaction, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.Transaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		if filter.AuthID != "" && tx.AuthID != filter.AuthID {
			continue
		}
		if filter.OpenOnly && !tx.Balance.IsPositive() {
			continue
		}
		result = append(result, tx)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		ka, kb := a.CreatedAt, b.CreatedAt
		if filter.OrderBy == interfaces.OrderByDueDateDesc {
			ka, kb = a.DueDate, b.DueDate
		}
		if !ka.Equal(kb) {
			return ka.After(kb)
		}
		return a.ID < b.ID
	})
	return result, nil
}

// UpdatePayment replaces the payment fields of an entry if its version still
// matches expectedVersion, then bumps the version.
func (m *MemoryLedgerStore) UpdatePayment(ctx context.Context, tx models.Transaction, expectedVersion int64) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.transactions[tx.ID]
	if !exists {
		return apperrors.NotFound("transaction", tx.ID)
	}
	if current.Version != expectedVersion {
		return apperrors.ErrConflict
	}

	current.AmountPaid = tx.AmountPaid
	current.Balance = tx.Balance
	current.Status = tx.Status
	current.PaymentMethod = tx.PaymentMethod
	current.Version = expectedVersion + 1
	m.transactions[tx.ID] = current
	return nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
