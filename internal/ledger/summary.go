package ledger

import (
	"sort"
	"time"

	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/shopspring/decimal"
)

const monthKeyLayout = "2006-01"

// MonthTotals is the income (amount paid) and outstanding balance of the
// entries that started in one month.
type MonthTotals struct {
	Income  decimal.Decimal `json:"income"`
	Balance decimal.Decimal `json:"balance"`
}

type MonthlySummary struct {
	Months        map[string]MonthTotals `json:"months"` // keyed by "2006-01"
	TotalIncome   decimal.Decimal        `json:"total_income"`
	TotalBalance  decimal.Decimal        `json:"total_balance"`
	TotalExpenses decimal.Decimal        `json:"total_expenses"`
}

// ComputeMonthlySummary groups entries by the calendar month of their start
// date. TotalExpenses is TotalIncome minus TotalBalance, not a sum of
// expenditures.
func ComputeMonthlySummary(txs []models.Transaction) MonthlySummary {
	s := MonthlySummary{
		Months:       make(map[string]MonthTotals),
		TotalIncome:  decimal.Zero,
		TotalBalance: decimal.Zero,
	}
	for _, tx := range txs {
		key := tx.StartDate.Format(monthKeyLayout)
		m, ok := s.Months[key]
		if !ok {
			m = MonthTotals{Income: decimal.Zero, Balance: decimal.Zero}
		}
		m.Income = m.Income.Add(tx.AmountPaid)
		m.Balance = m.Balance.Add(tx.Balance)
		s.Months[key] = m

		s.TotalIncome = s.TotalIncome.Add(tx.AmountPaid)
		s.TotalBalance = s.TotalBalance.Add(tx.Balance)
	}
	s.TotalExpenses = s.TotalIncome.Sub(s.TotalBalance)
	return s
}

type MonthRow struct {
	Month   string          `json:"month"` // "2006-01"
	Label   string          `json:"label"` // "January 2006"
	Income  decimal.Decimal `json:"income"`
	Balance decimal.Decimal `json:"balance"`
}

// Rows lists the months in chronological order.
func (s MonthlySummary) Rows() []MonthRow {
	keys := make([]string, 0, len(s.Months))
	for k := range s.Months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]MonthRow, 0, len(keys))
	for _, k := range keys {
		label := k
		if t, err := time.Parse(monthKeyLayout, k); err == nil {
			label = t.Format("January 2006")
		}
		m := s.Months[k]
		rows = append(rows, MonthRow{Month: k, Label: label, Income: m.Income, Balance: m.Balance})
	}
	return rows
}
