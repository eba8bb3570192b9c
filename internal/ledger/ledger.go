package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/jrose1022/SubTrack/internal/models/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 5

// Ledger is the single authority for dues obligations and payments.
// It holds the storage layer and a lock per transaction so that payments
// against the same entry are applied one at a time inside this process.
// Across processes the store's version compare-and-swap does the same job.
type Ledger struct {
	store     interfaces.LedgerStore
	users     interfaces.UserStore
	publisher interfaces.EventPublisher
	log       *zap.Logger

	now         func() time.Time
	loc         *time.Location
	maxAttempts int

	muMap map[string]*txLock // one lock per transaction id with a payment in flight
	mapMu sync.Mutex         // protects muMap itself
}

// txLock is removed from muMap once the last holder or waiter releases it.
type txLock struct {
	mu   sync.Mutex
	refs int
}

type Option func(*Ledger)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithMaxAttempts bounds how many times a payment is retried after losing a
// compare-and-swap race.
func WithMaxAttempts(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

func NewLedger(store interfaces.LedgerStore, users interfaces.UserStore, publisher interfaces.EventPublisher, log *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		users:       users,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
		loc:         time.UTC,
		maxAttempts: defaultMaxAttempts,
		muMap:       make(map[string]*txLock),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// lockTransaction blocks until the caller holds the lock for id and returns
// the function that releases it.
func (l *Ledger) lockTransaction(id string) (unlock func()) {

	l.mapMu.Lock()
	lk, exists := l.muMap[id]
	if !exists {
		lk = &txLock{}
		l.muMap[id] = lk
	}
	lk.refs++
	l.mapMu.Unlock()

	lk.mu.Lock()
	return func() {
		l.mapMu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.muMap, id)
		}
		l.mapMu.Unlock()

		lk.mu.Unlock()
	}
}

// today returns midnight of the current day in the ledger's location.
func (l *Ledger) today() time.Time {
	y, m, d := l.now().In(l.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, l.loc)
}

// AssessRequest describes a batch of new dues. Exactly one of AuthID and
// AllUsers selects the targets.
type AssessRequest struct {
	AuthID     string
	AllUsers   bool
	Type       string
	Amount     decimal.Decimal
	AssessedBy string // auth id of the administrator, recorded in the audit event
}

// AssessDues creates one Unpaid entry per target user, starting today and due
// one month from today. The entries are written as a single batch.
func (l *Ledger) AssessDues(ctx context.Context, req AssessRequest) ([]models.Transaction, error) {
	label := strings.TrimSpace(req.Type)
	switch {
	case req.AllUsers && req.AuthID != "":
		return nil, apperrors.Validation("target", "choose either a single user or all users")
	case !req.AllUsers && req.AuthID == "":
		return nil, apperrors.Validation("target", "no user selected")
	case label == "":
		return nil, apperrors.Validation("type", "is required")
	}
	if err := ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}

	targets, err := l.targets(ctx, req)
	if err != nil {
		return nil, err
	}

	start := l.today()
	due := start.AddDate(0, 1, 0)
	createdAt := l.now()

	txs := make([]models.Transaction, 0, len(targets))
	for _, authID := range targets {
		txs = append(txs, NewAssessment(uuid.New().String(), authID, label, req.Amount, start, due, createdAt))
	}

	if err := l.store.InsertTransactions(ctx, txs); err != nil {
		return nil, apperrors.Store("insert financing", err)
	}

	l.log.Info("dues assessed",
		zap.String("type", label),
		zap.String("amount", req.Amount.String()),
		zap.Int("entries", len(txs)),
		zap.String("assessed_by", req.AssessedBy),
	)

	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	l.publish(ctx, events.TopicDuesAssessed, label, events.DuesAssessed{
		EventID:        uuid.New().String(),
		TransactionIDs: ids,
		AuthIDs:        targets,
		Type:           label,
		Amount:         req.Amount,
		DueDate:        due,
		AssessedBy:     req.AssessedBy,
		OccurredAt:     createdAt,
	})
	return txs, nil
}

func (l *Ledger) targets(ctx context.Context, req AssessRequest) ([]string, error) {
	if !req.AllUsers {
		u, err := l.users.GetUserByAuthID(ctx, req.AuthID)
		if err != nil {
			return nil, apperrors.Store("get user", err)
		}
		return []string{u.AuthID}, nil
	}

	users, err := l.users.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Store("list users", err)
	}
	if len(users) == 0 {
		return nil, apperrors.Validation("target", "there are no users to assess")
	}
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.AuthID
	}
	return out, nil
}

// PaymentRequest applies Amount to one entry.
type PaymentRequest struct {
	TransactionID string
	Amount        decimal.Decimal
	Method        string
	AppliedBy     string
}

// ApplyPayment adds a payment to an open entry and returns the updated entry.
// The amount must be positive and no larger than the outstanding balance.
// If another writer updates the entry between the read and the write, the
// entry is re-read and the payment re-validated against the fresh balance.
func (l *Ledger) ApplyPayment(ctx context.Context, req PaymentRequest) (models.Transaction, error) {
	method := strings.TrimSpace(req.Method)
	if err := ValidateAmount("amount", req.Amount); err != nil {
		return models.Transaction{}, err
	}
	if method == "" {
		return models.Transaction{}, apperrors.Validation("payment_method", "is required")
	}

	unlock := l.lockTransaction(req.TransactionID)
	defer unlock()

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		current, err := l.store.GetTransaction(ctx, req.TransactionID)
		if err != nil {
			return models.Transaction{}, apperrors.Store("get transaction", err)
		}

		updated, err := Pay(current, req.Amount, method)
		if err != nil {
			return models.Transaction{}, err
		}

		err = l.store.UpdatePayment(ctx, updated, current.Version)
		if errors.Is(err, apperrors.ErrConflict) {
			l.log.Warn("payment lost version race, retrying",
				zap.String("transaction_id", req.TransactionID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return models.Transaction{}, apperrors.Store("update financing", err)
		}
		updated.Version = current.Version + 1

		l.log.Info("payment applied",
			zap.String("transaction_id", updated.ID),
			zap.String("auth_id", updated.AuthID),
			zap.String("amount", req.Amount.String()),
			zap.String("balance", updated.Balance.String()),
			zap.String("status", string(updated.Status)),
		)
		l.publish(ctx, events.TopicPaymentApplied, updated.ID, events.PaymentApplied{
			EventID:       uuid.New().String(),
			TransactionID: updated.ID,
			AuthID:        updated.AuthID,
			Amount:        req.Amount,
			Method:        method,
			AmountPaid:    updated.AmountPaid,
			Balance:       updated.Balance,
			Status:        string(updated.Status),
			AppliedBy:     req.AppliedBy,
			OccurredAt:    l.now(),
		})
		return updated, nil
	}

	return models.Transaction{}, fmt.Errorf("apply payment to %s after %d attempts: %w", req.TransactionID, l.maxAttempts, apperrors.ErrConflict)
}

// publish records an audit event. The ledger write has already committed, so
// a failure here is logged rather than returned.
func (l *Ledger) publish(ctx context.Context, topic, key string, event any) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, topic, key, event); err != nil {
		l.log.Error("publish audit event", zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}

func (l *Ledger) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		return models.Transaction{}, apperrors.Store("get transaction", err)
	}
	return tx, nil
}

func (l *Ledger) ListTransactions(ctx context.Context, filter interfaces.TransactionFilter) ([]models.Transaction, error) {
	txs, err := l.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, apperrors.Store("list financing", err)
	}
	return txs, nil
}

// BalanceSummary totals every entry of one user.
type BalanceSummary struct {
	AuthID         string          `json:"auth_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Balance        decimal.Decimal `json:"balance"`
	OpenEntries    int             `json:"open_entries"`
	OverdueEntries int             `json:"overdue_entries"`
}

func (l *Ledger) UserBalance(ctx context.Context, authID string) (BalanceSummary, error) {
	if _, err := l.users.GetUserByAuthID(ctx, authID); err != nil {
		return BalanceSummary{}, apperrors.Store("get user", err)
	}
	txs, err := l.ListTransactions(ctx, interfaces.TransactionFilter{AuthID: authID})
	if err != nil {
		return BalanceSummary{}, err
	}

	today := l.today()
	sum := BalanceSummary{
		AuthID:      authID,
		TotalAmount: decimal.Zero,
		AmountPaid:  decimal.Zero,
		Balance:     decimal.Zero,
	}
	for _, tx := range txs {
		sum.TotalAmount = sum.TotalAmount.Add(tx.TotalAmount)
		sum.AmountPaid = sum.AmountPaid.Add(tx.AmountPaid)
		sum.Balance = sum.Balance.Add(tx.Balance)
		if tx.Balance.IsPositive() {
			sum.OpenEntries++
		}
		if tx.Overdue(today) {
			sum.OverdueEntries++
		}
	}
	return sum, nil
}

// MonthlyReport summarises every entry in the ledger by start month.
func (l *Ledger) MonthlyReport(ctx context.Context) (MonthlySummary, error) {
	txs, err := l.ListTransactions(ctx, interfaces.TransactionFilter{})
	if err != nil {
		return MonthlySummary{}, err
	}
	return ComputeMonthlySummary(txs), nil
}

// Today exposes the ledger's notion of the current date.
func (l *Ledger) Today() time.Time {
	return l.today()
}
