package ledger

import (
	"time"

	"github.com/jrose1022/SubTrack/internal/apperrors"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/shopspring/decimal"
)

// MaxAmount is the first value the NUMERIC(12,2) money columns cannot hold.
var MaxAmount = decimal.New(1, 10)

// ValidateAmount accepts positive amounts in whole centavos below MaxAmount.
func ValidateAmount(field string, amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return apperrors.Validation(field, "must be greater than zero")
	case !amount.Equal(amount.Round(2)):
		return apperrors.Validation(field, "%s has more than two decimal places", amount.String())
	case amount.GreaterThanOrEqual(MaxAmount):
		return apperrors.Validation(field, "%s is too large", amount.String())
	}
	return nil
}

// NewAssessment builds a fresh, unpaid entry for one homeowner.
func NewAssessment(id, authID, label string, amount decimal.Decimal, start, due, createdAt time.Time) models.Transaction {
	return models.Transaction{
		ID:            id,
		AuthID:        authID,
		Type:          label,
		TotalAmount:   amount,
		AmountPaid:    decimal.Zero,
		Balance:       amount,
		Status:        models.DeriveStatus(amount, decimal.Zero),
		StartDate:     start,
		DueDate:       due,
		PaymentMethod: models.PaymentMethodPending,
		CreatedAt:     createdAt,
	}
}

// Pay returns tx with amount applied. It rejects invalid amounts, entries
// with nothing left to pay and amounts above the balance; it never clamps.
func Pay(tx models.Transaction, amount decimal.Decimal, method string) (models.Transaction, error) {
	if err := ValidateAmount("amount", amount); err != nil {
		return tx, err
	}
	if !tx.Balance.IsPositive() {
		return tx, apperrors.Validation("transaction", "%s has no outstanding balance", tx.ID)
	}
	if amount.GreaterThan(tx.Balance) {
		return tx, apperrors.Validation("amount", "%s exceeds the outstanding balance of %s", amount.String(), tx.Balance.String())
	}

	tx.AmountPaid = tx.AmountPaid.Add(amount)
	tx.Balance = tx.TotalAmount.Sub(tx.AmountPaid)
	tx.Status = models.DeriveStatus(tx.TotalAmount, tx.AmountPaid)
	tx.PaymentMethod = method
	return tx, nil
}
