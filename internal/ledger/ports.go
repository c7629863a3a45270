package ledger

import (
	"context"

	"github.com/Vivekgpta/Tracker/internal/core"
)

// Ports for the balance ledger. The HTTP layer depends on these, the SQLite
// repository (wrapped by services.LedgerService) provides them.
type (
	// ExpenseLedger mutates expenses and keeps wallet balances consistent.
	// Each operation applies as a single all-or-nothing unit. Update and
	// Delete report a missing expense as (false, nil), not an error.
	ExpenseLedger interface {
		CreateExpense(ctx context.Context, e core.Expense) (id int64, err error)
		UpdateExpense(ctx context.Context, e core.Expense) (found bool, err error)
		DeleteExpense(ctx context.Context, id int64) (found bool, err error)
	}

	// WalletStore performs plain wallet writes with no balance recomputation.
	WalletStore interface {
		CreateWallet(ctx context.Context, w core.Wallet) (id int64, err error)
		UpdateWallet(ctx context.Context, w core.Wallet) (found bool, err error)
		GetWallet(ctx context.Context, id int64) (*core.Wallet, error)
	}

	// DataReader returns the full data set for the dashboard, expenses
	// ordered newest-date-first.
	DataReader interface {
		GetAllData(ctx context.Context) ([]core.Wallet, []core.Expense, error)
	}

	// SpendReader aggregates a wallet's spending for one calendar month.
	SpendReader interface {
		MonthlySpend(ctx context.Context, walletID int64, year, month int) (core.Money, error)
	}

	// AlertSink records a limit-breach alert. Delivery is advisory and
	// best-effort; implementations log rather than send.
	AlertSink interface {
		SendAlert(ctx context.Context, insight, walletName string, limit core.Money) error
	}
)
