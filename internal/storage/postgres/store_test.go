package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	txA       = "5f0c6d1e-8a53-4c39-9d1e-2b7f4a3c1a01"
	txMissing = "5f0c6d1e-8a53-4c39-9d1e-2b7f4a3c1aff"
)

var financingCols = []string{"id", "auth_id", "type", "total_amount", "amount_paid", "balance", "status",
	"start_date", "due_date", "payment_method", "created_at", "version"}

func newMock(t *testing.T) (*PostgresLedgerStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLedgerStore(db), mock
}

func dues(id, authID string) models.Transaction {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	return models.Transaction{
		ID: id, AuthID: authID, Type: "Monthly Dues",
		TotalAmount: decimal.NewFromInt(500), AmountPaid: decimal.Zero, Balance: decimal.NewFromInt(500),
		Status: models.StatusUnpaid, StartDate: now, DueDate: now.AddDate(0, 1, 0),
		PaymentMethod: models.PaymentMethodPending, CreatedAt: now,
	}
}

func TestInsertTransactionsCommitsBatch(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO financing")
	prep.ExpectExec().WithArgs("a", "u1", "Monthly Dues", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		"Unpaid", sqlmock.AnyArg(), sqlmock.AnyArg(), "Pending", sqlmock.AnyArg(), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.InsertTransactions(context.Background(), []models.Transaction{dues("a", "u1"), dues("b", "u2")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTransactionsRollsBackOnFailure(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO financing")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(&pq.Error{Code: foreignKeyViolation, Detail: "Key (auth_id)=(ghost) is not present"})
	mock.ExpectRollback()

	err := store.InsertTransactions(context.Background(), []models.Transaction{dues("a", "u1"), dues("b", "ghost")})
	assert.True(t, apperrors.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionScansRow(t *testing.T) {
	store, mock := newMock(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM financing WHERE id").WithArgs(txA).WillReturnRows(
		sqlmock.NewRows(financingCols).AddRow(txA, "u1", "Monthly Dues", "1000.00", "400.00", "600.00",
			"Partially Paid", start, start.AddDate(0, 1, 0), "Cash", start, int64(3)))

	tx, err := store.GetTransaction(context.Background(), txA)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, tx.Status)
	assert.True(t, tx.Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, tx.AmountPaid.Equal(decimal.NewFromInt(400)))
	assert.EqualValues(t, 3, tx.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("FROM financing WHERE id").WithArgs(txMissing).WillReturnRows(sqlmock.NewRows(financingCols))

	_, err := store.GetTransaction(context.Background(), txMissing)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMalformedIDIsNotFound(t *testing.T) {
	store, mock := newMock(t)

	_, err := store.GetTransaction(context.Background(), "abc")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)

	err = store.UpdatePayment(context.Background(), dues("abc", "u1"), 0)
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverErrorsAreClassified(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("FROM financing WHERE id").WithArgs(txA).
		WillReturnError(&pq.Error{Code: invalidText, Message: `invalid input syntax for type uuid: "abc"`})
	_, err := store.GetTransaction(context.Background(), txA)
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
	assert.False(t, apperrors.IsStore(apperrors.Store("get transaction", err)))

	mock.ExpectExec("UPDATE financing SET amount_paid").
		WillReturnError(&pq.Error{Code: numericOutOfRange, Message: "numeric field overflow"})
	err = store.UpdatePayment(context.Background(), dues(txA, "u1"), 0)
	assert.True(t, apperrors.IsValidation(err), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanDerivesStatusFromAmounts(t *testing.T) {
	store, mock := newMock(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM financing ORDER BY created_at DESC").WillReturnRows(sqlmock.NewRows(financingCols).
		AddRow(txA, "u1", "Monthly Dues", "1000", "0", "1000", "Overdue", start, start, "Pending", start, int64(0)).
		AddRow(txMissing, "u1", "Monthly Dues", "1000", "1000", "0", "Partial", start, start, "Cash", start, int64(2)))

	txs, err := store.ListTransactions(context.Background(), interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.StatusUnpaid, txs[0].Status)
	assert.Equal(t, models.StatusPaid, txs[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsBuildsFilter(t *testing.T) {
	store, mock := newMock(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM financing WHERE auth_id = $1 AND balance > 0 ORDER BY due_date DESC, id")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(financingCols).
			AddRow("a", "u1", "Monthly Dues", "500", "0", "500", "Unpaid", start, start, "Pending", start, int64(0)).
			AddRow("b", "u1", "Monthly Dues", "500", "100", "400", "Partial", start, start, "Cash", start, int64(1)))

	txs, err := store.ListTransactions(context.Background(), interfaces.TransactionFilter{AuthID: "u1", OpenOnly: true, OrderBy: interfaces.OrderByDueDateDesc})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.StatusPartial, txs[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentVersionCheck(t *testing.T) {
	tx := dues(txA, "u1")
	tx.AmountPaid, tx.Balance, tx.Status, tx.PaymentMethod = decimal.NewFromInt(300), decimal.NewFromInt(200), models.StatusPartial, "GCash"

	t.Run("applied", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec("UPDATE financing SET amount_paid").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Partial", "GCash", txA, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.UpdatePayment(context.Background(), tx, 4))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec("UPDATE financing SET amount_paid").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM financing WHERE id").WithArgs(txA).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

		assert.ErrorIs(t, store.UpdatePayment(context.Background(), tx, 4), apperrors.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec("UPDATE financing SET amount_paid").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM financing WHERE id").WithArgs(txA).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}))

		assert.True(t, apperrors.IsNotFound(store.UpdatePayment(context.Background(), tx, 4)))
	})
}

func TestMigrateSkipsAppliedFiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, Migrate(context.Background(), db, zap.NewNop()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateAppliesPendingFiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("001_init.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), db, zap.NewNop()))
	require.NoError(t, mock.ExpectationsWereMet())
}
