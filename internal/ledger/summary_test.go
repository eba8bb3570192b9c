package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(start time.Time, total, paid int64) models.Transaction {
	tx := NewAssessment("", "u", "Monthly Dues", decimal.NewFromInt(total), start, start.AddDate(0, 1, 0), start)
	if paid > 0 {
		tx, _ = Pay(tx, decimal.NewFromInt(paid), "Cash")
	}
	return tx
}

func sampleLedger() []models.Transaction {
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	janNextYear := time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		entry(jan, 1000, 400),
		entry(jan.AddDate(0, 0, 20), 500, 500),
		entry(feb, 800, 0),
		entry(janNextYear, 300, 100),
	}
}

func TestComputeMonthlySummary(t *testing.T) {
	s := ComputeMonthlySummary(sampleLedger())

	require.Len(t, s.Months, 3)
	assert.Equal(t, "900", s.Months["2025-01"].Income.String())
	assert.Equal(t, "600", s.Months["2025-01"].Balance.String())
	assert.Equal(t, "0", s.Months["2025-02"].Income.String())
	assert.Equal(t, "800", s.Months["2025-02"].Balance.String())
	assert.Equal(t, "100", s.Months["2026-01"].Income.String())

	assert.Equal(t, "1000", s.TotalIncome.String())
	assert.Equal(t, "1600", s.TotalBalance.String())
	assert.Equal(t, "-600", s.TotalExpenses.String())
}

func TestComputeMonthlySummaryIsOrderIndependent(t *testing.T) {
	txs := sampleLedger()
	want := ComputeMonthlySummary(txs)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Transaction(nil), txs...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ComputeMonthlySummary(shuffled)
		assert.Equal(t, rowStrings(want), rowStrings(got))
		assert.True(t, want.TotalIncome.Equal(got.TotalIncome))
		assert.True(t, want.TotalBalance.Equal(got.TotalBalance))
		assert.True(t, want.TotalExpenses.Equal(got.TotalExpenses))
	}
	assert.Equal(t, rowStrings(want), rowStrings(ComputeMonthlySummary(txs)))
}

func rowStrings(s MonthlySummary) []string {
	var out []string
	for _, r := range s.Rows() {
		out = append(out, r.Month+" "+r.Income.String()+" "+r.Balance.String())
	}
	return out
}

func TestComputeMonthlySummaryEmpty(t *testing.T) {
	s := ComputeMonthlySummary(nil)
	assert.Empty(t, s.Months)
	assert.True(t, s.TotalExpenses.IsZero())
	assert.Empty(t, s.Rows())
}

func TestRowsAreChronological(t *testing.T) {
	rows := ComputeMonthlySummary(sampleLedger()).Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"January 2025", "February 2025", "January 2026"},
		[]string{rows[0].Label, rows[1].Label, rows[2].Label})
}
