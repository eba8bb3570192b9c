// Package reminder periodically tells the association officers which dues
// are overdue or about to fall due.
package reminder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"go.uber.org/zap"
)

// DueSoonDays is how far ahead an open entry counts as "due soon".
const DueSoonDays = 3

// Ledger is the read side the worker needs.
type Ledger interface {
	ListTransactions(ctx context.Context, filter interfaces.TransactionFilter) ([]models.Transaction, error)
	Today() time.Time
}

type Worker struct {
	ledger   Ledger
	users    interfaces.UserStore
	notifier interfaces.Notifier
	log      *zap.Logger
}

func NewWorker(ledger Ledger, users interfaces.UserStore, notifier interfaces.Notifier, log *zap.Logger) *Worker {
	return &Worker{ledger: ledger, users: users, notifier: notifier, log: log}
}

// Run sends a digest every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.log.Error("reminder run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce builds and sends one digest. It returns the number of entries
// mentioned; nothing is sent when that is zero.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	open, err := w.ledger.ListTransactions(ctx, interfaces.TransactionFilter{OpenOnly: true, OrderBy: interfaces.OrderByDueDateDesc})
	if err != nil {
		return 0, fmt.Errorf("list open dues: %w", err)
	}

	today := w.ledger.Today()
	horizon := today.AddDate(0, 0, DueSoonDays+1)

	var overdue, dueSoon []models.Transaction
	for _, tx := range open {
		switch {
		case tx.Overdue(today):
			overdue = append(overdue, tx)
		case tx.DueDate.Before(horizon):
			dueSoon = append(dueSoon, tx)
		}
	}
	if len(overdue)+len(dueSoon) == 0 {
		return 0, nil
	}

	names := w.names(ctx)
	text := Digest(today, overdue, dueSoon, names)
	if err := w.notifier.Notify(ctx, text); err != nil {
		return 0, fmt.Errorf("send reminder: %w", err)
	}
	w.log.Info("reminder sent", zap.Int("overdue", len(overdue)), zap.Int("due_soon", len(dueSoon)))
	return len(overdue) + len(dueSoon), nil
}

func (w *Worker) names(ctx context.Context) map[string]string {
	users, err := w.users.ListUsers(ctx)
	if err != nil {
		w.log.Warn("reminder could not load user names", zap.Error(err))
		return nil
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.AuthID] = u.Name
	}
	return out
}

// Digest renders the reminder text. Entries are listed oldest due date first.
func Digest(today time.Time, overdue, dueSoon []models.Transaction, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SubTrack dues reminder for %s\n", today.Format("Jan 2, 2006"))

	section := func(title string, txs []models.Transaction) {
		if len(txs) == 0 {
			return
		}
		sort.Slice(txs, func(i, j int) bool {
			if !txs[i].DueDate.Equal(txs[j].DueDate) {
				return txs[i].DueDate.Before(txs[j].DueDate)
			}
			return txs[i].ID < txs[j].ID
		})
		fmt.Fprintf(&b, "\n%s (%d):\n", title, len(txs))
		for _, tx := range txs {
			who := names[tx.AuthID]
			if who == "" {
				who = tx.AuthID
			}
			fmt.Fprintf(&b, "- %s: %s, ₱%s of ₱%s, due %s\n",
				who, tx.Type, tx.Balance.StringFixed(2), tx.TotalAmount.StringFixed(2), tx.DueDate.Format("2006-01-02"))
		}
	}
	section("Overdue", overdue)
	section(fmt.Sprintf("Due within %d days", DueSoonDays), dueSoon)
	return b.String()
}
