package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces" // interface LedgerStore
	"github.com/jrose1022/SubTrack/internal/models"
)

const financingColumns = `id, auth_id, type, total_amount, amount_paid, balance, status,
	start_date, due_date, payment_method, created_at, version`

type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

func (p *PostgresLedgerStore) InsertTransactions(ctx context.Context, txs []models.Transaction) (err error) {
	const query = `INSERT INTO financing (id, auth_id, type, total_amount, amount_paid, balance, status,
	start_date, due_date, payment_method, created_at, version)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err = stmt.ExecContext(ctx, tx.ID, tx.AuthID, tx.Type, tx.TotalAmount, tx.AmountPaid, tx.Balance,
			string(tx.Status), tx.StartDate, tx.DueDate, tx.PaymentMethod, tx.CreatedAt, tx.Version)
		if err != nil {
			return classify(err)
		}
	}
	return dbTx.Commit()
}

func (p *PostgresLedgerStore) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	if err := checkID("transaction", id); err != nil {
		return models.Transaction{}, err
	}
	query := `SELECT ` + financingColumns + ` FROM financing WHERE id = $1`

	tx, err := scanTransaction(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, apperrors.NotFound("transaction", id)
	}
	if err != nil {
		return models.Transaction{}, classify(err)
	}
	return tx, nil
}

func (p *PostgresLedgerStore) ListTransactions(ctx context.Context, filter interfaces.TransactionFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.AuthID != "" {
		args = append(args, filter.AuthID)
		where = append(where, "auth_id = $1")
	}
	if filter.OpenOnly {
		where = append(where, "balance > 0")
	}

	query := `SELECT ` + financingColumns + ` FROM financing`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if filter.OrderBy == interfaces.OrderByDueDateDesc {
		query += ` ORDER BY due_date DESC, id`
	} else {
		query += ` ORDER BY created_at DESC, id`
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var txs []models.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (p *PostgresLedgerStore) UpdatePayment(ctx context.Context, tx models.Transaction, expectedVersion int64) error {
	const query = `UPDATE financing
	SET amount_paid = $1, balance = $2, status = $3, payment_method = $4, version = version + 1
	WHERE id = $5 AND version = $6`

	if err := checkID("transaction", tx.ID); err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, query, tx.AmountPaid, tx.Balance, string(tx.Status), tx.PaymentMethod, tx.ID, expectedVersion)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = p.db.QueryRowContext(ctx, `SELECT 1 FROM financing WHERE id = $1`, tx.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("transaction", tx.ID)
	}
	if err != nil {
		return err
	}
	return apperrors.ErrConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		tx     models.Transaction
		stored string // status is derived from the amounts, never trusted
	)
	err := row.Scan(
		&tx.ID,
		&tx.AuthID,
		&tx.Type,
		&tx.TotalAmount,
		&tx.AmountPaid,
		&tx.Balance,
		&stored,
		&tx.StartDate,
		&tx.DueDate,
		&tx.PaymentMethod,
		&tx.CreatedAt,
		&tx.Version,
	)
	tx.Status = models.DeriveStatus(tx.TotalAmount, tx.AmountPaid)
	return tx, err
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
