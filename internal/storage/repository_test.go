package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Vivekgpta/Tracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateWallet(t *testing.T, repo *SQLiteRepository, name string, balanceCents, limitCents int64) int64 {
	t.Helper()
	id, err := repo.CreateWallet(context.Background(), core.Wallet{
		Name:         name,
		Balance:      core.Money{Cents: balanceCents},
		MonthlyLimit: core.Money{Cents: limitCents},
	})
	if err != nil {
		t.Fatalf("create wallet %q: %v", name, err)
	}
	return id
}

func walletBalance(t *testing.T, repo *SQLiteRepository, id int64) int64 {
	t.Helper()
	w, err := repo.GetWallet(context.Background(), id)
	if err != nil {
		t.Fatalf("get wallet %d: %v", id, err)
	}
	if w == nil {
		t.Fatalf("wallet %d not found", id)
	}
	return w.Balance.Cents
}

func TestSeedDefaultWallet(t *testing.T) {
	repo := newTestRepo(t)

	wallets, _, err := repo.GetAllData(context.Background())
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(wallets) != 1 {
		t.Fatalf("expected 1 seeded wallet, got %d", len(wallets))
	}
	w := wallets[0]
	if w.Name != "Main Wallet" || w.Balance.Cents != 500000 || w.MonthlyLimit.Cents != 100000 {
		t.Fatalf("unexpected seed wallet: %+v", w)
	}
	if w.Currency != core.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", w.Currency)
	}
}

// Scenario from the product brief: create 200 against a 5000 wallet, edit to
// 350, delete. Balance must track 4800 -> 4650 -> 5000 exactly.
func TestExpenseLifecycleBalances(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 500000, 100000)

	id, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: walletID,
		Amount:   core.Money{Cents: 20000},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 5),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if got := walletBalance(t, repo, walletID); got != 480000 {
		t.Fatalf("after create: balance = %d, want 480000", got)
	}

	found, err := repo.UpdateExpense(ctx, core.Expense{
		ID:       id,
		WalletID: walletID,
		Amount:   core.Money{Cents: 35000},
		Category: "Food",
		Date:     core.NewDate(2024, 1, 5),
	})
	if err != nil || !found {
		t.Fatalf("update expense: found=%v err=%v", found, err)
	}
	if got := walletBalance(t, repo, walletID); got != 465000 {
		t.Fatalf("after update: balance = %d, want 465000", got)
	}

	found, err = repo.DeleteExpense(ctx, id)
	if err != nil || !found {
		t.Fatalf("delete expense: found=%v err=%v", found, err)
	}
	if got := walletBalance(t, repo, walletID); got != 500000 {
		t.Fatalf("after delete: balance = %d, want 500000", got)
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected no expenses after delete, got %d", len(expenses))
	}
}

func TestUpdateExpenseReassignsWallet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	a := mustCreateWallet(t, repo, "A", 100000, 0)
	b := mustCreateWallet(t, repo, "B", 200000, 0)

	// Unrelated expense on B must stay untouched by the reassignment.
	if _, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: b, Amount: core.Money{Cents: 5000}, Category: "Bills", Date: core.NewDate(2024, 1, 2),
	}); err != nil {
		t.Fatalf("create unrelated expense: %v", err)
	}

	id, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: a, Amount: core.Money{Cents: 10000}, Category: "Food", Date: core.NewDate(2024, 1, 3),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	found, err := repo.UpdateExpense(ctx, core.Expense{
		ID: id, WalletID: b, Amount: core.Money{Cents: 10000}, Category: "Food", Date: core.NewDate(2024, 1, 3),
	})
	if err != nil || !found {
		t.Fatalf("reassign expense: found=%v err=%v", found, err)
	}

	if got := walletBalance(t, repo, a); got != 100000 {
		t.Fatalf("wallet A balance = %d, want 100000", got)
	}
	if got := walletBalance(t, repo, b); got != 185000 {
		t.Fatalf("wallet B balance = %d, want 185000", got)
	}
}

func TestUpdateExpenseKeyedByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 100000, 0)

	first, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: walletID, Amount: core.Money{Cents: 1000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: walletID, Amount: core.Money{Cents: 2000}, Category: "Bills", Date: core.NewDate(2024, 1, 2),
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Editing the second expense must net against its own prior amount, not
	// the first row's.
	found, err := repo.UpdateExpense(ctx, core.Expense{
		ID: second, WalletID: walletID, Amount: core.Money{Cents: 2500}, Category: "Bills", Date: core.NewDate(2024, 1, 2),
	})
	if err != nil || !found {
		t.Fatalf("update second: found=%v err=%v", found, err)
	}
	if got := walletBalance(t, repo, walletID); got != 100000-1000-2500 {
		t.Fatalf("balance = %d, want %d", got, 100000-1000-2500)
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	for _, e := range expenses {
		if e.ID == first && e.Amount.Cents != 1000 {
			t.Fatalf("first expense mutated: %+v", e)
		}
	}
}

func TestUpdateDeleteNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 100000, 0)

	found, err := repo.UpdateExpense(ctx, core.Expense{
		ID: 9999, WalletID: walletID, Amount: core.Money{Cents: 100}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if found {
		t.Fatal("update of missing expense reported found")
	}

	found, err = repo.DeleteExpense(ctx, 9999)
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if found {
		t.Fatal("delete of missing expense reported found")
	}

	if got := walletBalance(t, repo, walletID); got != 100000 {
		t.Fatalf("balance mutated by not-found operation: %d", got)
	}
}

func TestCreateExpenseRejectsMissingWallet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: 424242, Amount: core.Money{Cents: 100}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("orphan expense persisted: %d rows", len(expenses))
	}
}

func TestUpdateExpenseRejectsMissingTargetWallet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 100000, 0)

	id, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: walletID, Amount: core.Money{Cents: 1000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.UpdateExpense(ctx, core.Expense{
		ID: id, WalletID: 424242, Amount: core.Money{Cents: 1000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}

	// Whole unit aborted: source wallet unchanged, row still owned by it.
	if got := walletBalance(t, repo, walletID); got != 99000 {
		t.Fatalf("balance = %d, want 99000", got)
	}
	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(expenses) != 1 || expenses[0].WalletID != walletID {
		t.Fatalf("expense row mutated: %+v", expenses)
	}
}

func TestGetAllDataOrdersExpensesNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 100000, 0)

	dates := []core.Date{
		core.NewDate(2024, 1, 10),
		core.NewDate(2024, 3, 1),
		core.NewDate(2024, 2, 14),
	}
	for _, d := range dates {
		if _, err := repo.CreateExpense(ctx, core.Expense{
			WalletID: walletID, Amount: core.Money{Cents: 100}, Category: "Other", Date: d,
		}); err != nil {
			t.Fatalf("create expense %s: %v", d, err)
		}
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	want := []string{"2024-03-01", "2024-02-14", "2024-01-10"}
	if len(expenses) != len(want) {
		t.Fatalf("expected %d expenses, got %d", len(want), len(expenses))
	}
	for i, w := range want {
		if expenses[i].Date.String() != w {
			t.Fatalf("position %d: got %s, want %s", i, expenses[i].Date.String(), w)
		}
	}
}

func TestRoundTripFieldsMatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	walletID := mustCreateWallet(t, repo, "Main", 500000, 100000)

	in := core.Expense{
		WalletID:    walletID,
		Amount:      core.Money{Cents: 20000},
		Category:    "Food",
		Description: "groceries",
		Date:        core.NewDate(2024, 1, 5),
	}
	id, err := repo.CreateExpense(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}
	got := expenses[0]
	if got.ID != id || got.WalletID != in.WalletID || got.Amount != in.Amount ||
		got.Category != in.Category || got.Description != in.Description ||
		got.Date.String() != in.Date.String() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestMonthlySpend(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	a := mustCreateWallet(t, repo, "A", 100000, 50000)
	b := mustCreateWallet(t, repo, "B", 100000, 50000)

	fixtures := []struct {
		wallet int64
		cents  int64
		date   core.Date
	}{
		{a, 1000, core.NewDate(2024, 1, 5)},
		{a, 2500, core.NewDate(2024, 1, 28)},
		{a, 9999, core.NewDate(2024, 2, 1)}, // other month
		{b, 7777, core.NewDate(2024, 1, 5)}, // other wallet
	}
	for _, f := range fixtures {
		if _, err := repo.CreateExpense(ctx, core.Expense{
			WalletID: f.wallet, Amount: core.Money{Cents: f.cents}, Category: "Other", Date: f.date,
		}); err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}

	spend, err := repo.MonthlySpend(ctx, a, 2024, 1)
	if err != nil {
		t.Fatalf("monthly spend: %v", err)
	}
	if spend.Cents != 3500 {
		t.Fatalf("monthly spend = %d, want 3500", spend.Cents)
	}
}

func TestUpdateWalletDirectReplacement(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := mustCreateWallet(t, repo, "Main", 100000, 50000)

	found, err := repo.UpdateWallet(ctx, core.Wallet{
		ID:           id,
		Name:         "Renamed",
		Balance:      core.Money{Cents: 123456},
		MonthlyLimit: core.Money{Cents: 60000},
	})
	if err != nil || !found {
		t.Fatalf("update wallet: found=%v err=%v", found, err)
	}

	w, err := repo.GetWallet(ctx, id)
	if err != nil || w == nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.Name != "Renamed" || w.Balance.Cents != 123456 || w.MonthlyLimit.Cents != 60000 {
		t.Fatalf("replacement not applied: %+v", w)
	}

	found, err = repo.UpdateWallet(ctx, core.Wallet{ID: 9999, Name: "ghost"})
	if err != nil {
		t.Fatalf("update missing wallet: %v", err)
	}
	if found {
		t.Fatal("update of missing wallet reported found")
	}
}

// installBalanceFault makes every balance adjustment on wallets named
// "Frozen" fail, so a transaction can be killed between its row write and
// its balance write.
func installBalanceFault(t *testing.T, repo *SQLiteRepository) {
	t.Helper()
	_, err := repo.db.Exec(`
		CREATE TRIGGER freeze_balance BEFORE UPDATE OF balance ON wallets
		WHEN OLD.name = 'Frozen'
		BEGIN
			SELECT RAISE(ABORT, 'balance update failed');
		END`)
	if err != nil {
		t.Fatalf("install balance fault: %v", err)
	}
}

func countExpenses(t *testing.T, repo *SQLiteRepository, walletID int64) int {
	t.Helper()
	var n int
	if err := repo.db.QueryRow(
		`SELECT COUNT(*) FROM expenses WHERE wallet_id = ?`, walletID).Scan(&n); err != nil {
		t.Fatalf("count expenses: %v", err)
	}
	return n
}

// A failure after the expense row is inserted but before the balance debit
// must roll the whole unit back: no row, no balance change.
func TestCreateExpenseRollsBackOnBalanceFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := mustCreateWallet(t, repo, "Frozen", 50000, 10000)
	installBalanceFault(t, repo)

	_, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: id, Amount: core.Money{Cents: 2000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err == nil {
		t.Fatal("expected create to fail when the balance write fails")
	}

	if n := countExpenses(t, repo, id); n != 0 {
		t.Fatalf("expense row survived the rollback: %d rows", n)
	}
	if got := walletBalance(t, repo, id); got != 50000 {
		t.Fatalf("balance = %d, want untouched 50000", got)
	}
}

// Delete credits the balance before removing the row; a failed credit must
// leave the row in place.
func TestDeleteExpenseRollsBackOnBalanceFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := mustCreateWallet(t, repo, "Main", 50000, 10000)

	expID, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: id, Amount: core.Money{Cents: 2000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	// Freeze the wallet only after the expense exists.
	if _, err := repo.db.Exec(`UPDATE wallets SET name = 'Frozen' WHERE id = ?`, id); err != nil {
		t.Fatalf("rename wallet: %v", err)
	}
	installBalanceFault(t, repo)

	found, err := repo.DeleteExpense(ctx, expID)
	if err == nil {
		t.Fatalf("expected delete to fail when the balance write fails (found=%v)", found)
	}

	if n := countExpenses(t, repo, id); n != 1 {
		t.Fatalf("expense row count = %d, want 1 after rollback", n)
	}
	if got := walletBalance(t, repo, id); got != 48000 {
		t.Fatalf("balance = %d, want 48000 after rollback", got)
	}
}

// An update whose balance reconciliation fails must leave the old amount,
// the old balance and the old wallet assignment all intact.
func TestUpdateExpenseRollsBackOnBalanceFailure(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := mustCreateWallet(t, repo, "Main", 50000, 10000)

	expID, err := repo.CreateExpense(ctx, core.Expense{
		WalletID: id, Amount: core.Money{Cents: 2000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if _, err := repo.db.Exec(`UPDATE wallets SET name = 'Frozen' WHERE id = ?`, id); err != nil {
		t.Fatalf("rename wallet: %v", err)
	}
	installBalanceFault(t, repo)

	_, err = repo.UpdateExpense(ctx, core.Expense{
		ID: expID, WalletID: id, Amount: core.Money{Cents: 9000}, Category: "Food", Date: core.NewDate(2024, 1, 1),
	})
	if err == nil {
		t.Fatal("expected update to fail when the balance write fails")
	}

	_, expenses, err := repo.GetAllData(ctx)
	if err != nil {
		t.Fatalf("get all data: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Amount.Cents != 2000 {
		t.Fatalf("expense mutated despite rollback: %+v", expenses)
	}
	if got := walletBalance(t, repo, id); got != 48000 {
		t.Fatalf("balance = %d, want 48000 after rollback", got)
	}
}
