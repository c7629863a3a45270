package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Vivekgpta/Tracker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrWalletNotFound reports an expense write that targets a wallet id with no
// wallet behind it. It surfaces as a client error, never as a silent orphaned
// balance adjustment.
var ErrWalletNotFound = errors.New("wallet not found")

// SQLiteRepository owns the durable state: the wallets and expenses tables.
// Every balance-affecting operation runs as one transaction, so readers never
// observe an expense row without its balance effect or vice versa.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	if err := repo.seedDefaultWallet(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed default wallet: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// seedDefaultWallet inserts one starter wallet on first boot so the app is
// usable before any wallet has been created.
func (r *SQLiteRepository) seedDefaultWallet(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wallets`).Scan(&count); err != nil {
		return fmt.Errorf("count wallets: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (name, balance, monthly_limit, currency) VALUES (?, ?, ?, ?)`,
		"Main Wallet", int64(500000), int64(100000), core.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("insert seed wallet: %w", err)
	}

	slog.InfoContext(ctx, "Seeded default wallet",
		"name", "Main Wallet",
		"balance_cents", 500000,
		"monthly_limit_cents", 100000)
	return nil
}

// CreateExpense inserts the expense row and debits the target wallet's
// balance in the same transaction.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := walletExists(ctx, tx, e.WalletID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (wallet_id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		e.WalletID, e.Amount.Cents, e.Category, e.Description, e.Date.String())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if err := adjustBalance(ctx, tx, e.WalletID, -e.Amount.Cents); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", id,
		"wallet_id", e.WalletID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"date", e.Date.String())
	return id, nil
}

// UpdateExpense overwrites the expense row and reconciles wallet balances.
// A reassignment credits the full amount back to the old wallet and debits
// the new one; a same-wallet edit applies only the net delta, so the balance
// moves by exactly old−new. Returns (false, nil) when the id does not exist.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldWalletID, oldAmount int64
	err = tx.QueryRowContext(ctx,
		`SELECT wallet_id, amount FROM expenses WHERE id = ?`, e.ID).
		Scan(&oldWalletID, &oldAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load prior expense: %w", err)
	}

	if e.WalletID != oldWalletID {
		if err := walletExists(ctx, tx, e.WalletID); err != nil {
			return false, err
		}
		if err := adjustBalance(ctx, tx, oldWalletID, oldAmount); err != nil {
			return false, err
		}
		if err := adjustBalance(ctx, tx, e.WalletID, -e.Amount.Cents); err != nil {
			return false, err
		}
	} else if diff := e.Amount.Cents - oldAmount; diff != 0 {
		if err := adjustBalance(ctx, tx, e.WalletID, -diff); err != nil {
			return false, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET wallet_id = ?, amount = ?, category = ?, description = ?, date = ? WHERE id = ?`,
		e.WalletID, e.Amount.Cents, e.Category, e.Description, e.Date.String(), e.ID)
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated",
		"id", e.ID,
		"wallet_id", e.WalletID,
		"old_wallet_id", oldWalletID,
		"amount_cents", e.Amount.Cents,
		"old_amount_cents", oldAmount)
	return true, nil
}

// DeleteExpense credits the amount back to the owning wallet and removes the
// row. Returns (false, nil) when the id does not exist.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var walletID, amount int64
	err = tx.QueryRowContext(ctx,
		`SELECT wallet_id, amount FROM expenses WHERE id = ?`, id).
		Scan(&walletID, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load expense: %w", err)
	}

	if err := adjustBalance(ctx, tx, walletID, amount); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted",
		"id", id,
		"wallet_id", walletID,
		"amount_cents", amount)
	return true, nil
}

// CreateWallet inserts a wallet with the caller-supplied starting balance.
func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) (int64, error) {
	currency := w.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (name, balance, monthly_limit, currency) VALUES (?, ?, ?, ?)`,
		w.Name, w.Balance.Cents, w.MonthlyLimit.Cents, currency)
	if err != nil {
		return 0, fmt.Errorf("insert wallet: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Wallet created",
		"id", id,
		"name", w.Name,
		"balance_cents", w.Balance.Cents,
		"monthly_limit_cents", w.MonthlyLimit.Cents)
	return id, nil
}

// UpdateWallet replaces name, balance and monthly limit directly. The ledger
// does not reconcile balance here; the caller owns the value it writes.
func (r *SQLiteRepository) UpdateWallet(ctx context.Context, w core.Wallet) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET name = ?, balance = ?, monthly_limit = ? WHERE id = ?`,
		w.Name, w.Balance.Cents, w.MonthlyLimit.Cents, w.ID)
	if err != nil {
		return false, fmt.Errorf("update wallet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetWallet returns a single wallet or (nil, nil) when absent.
func (r *SQLiteRepository) GetWallet(ctx context.Context, id int64) (*core.Wallet, error) {
	var w core.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, balance, monthly_limit, currency FROM wallets WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.Balance.Cents, &w.MonthlyLimit.Cents, &w.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// GetAllData returns every wallet and every expense, expenses newest-date-
// first. No pagination; expected volume is personal-scale.
func (r *SQLiteRepository) GetAllData(ctx context.Context) ([]core.Wallet, []core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, balance, monthly_limit, currency FROM wallets ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("select wallets: %w", err)
	}
	defer rows.Close()

	wallets := []core.Wallet{}
	for rows.Next() {
		var w core.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.Balance.Cents, &w.MonthlyLimit.Cents, &w.Currency); err != nil {
			return nil, nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate wallets: %w", err)
	}

	expRows, err := r.db.QueryContext(ctx,
		`SELECT id, wallet_id, amount, category, COALESCE(description, ''), date
		 FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, nil, fmt.Errorf("select expenses: %w", err)
	}
	defer expRows.Close()

	expenses := []core.Expense{}
	for expRows.Next() {
		var e core.Expense
		var date string
		if err := expRows.Scan(&e.ID, &e.WalletID, &e.Amount.Cents, &e.Category, &e.Description, &date); err != nil {
			return nil, nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		expenses = append(expenses, e)
	}
	if err := expRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return wallets, expenses, nil
}

// MonthlySpend sums a wallet's expense amounts for one calendar month.
func (r *SQLiteRepository) MonthlySpend(ctx context.Context, walletID int64, year, month int) (core.Money, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE wallet_id = ? AND substr(date, 1, 7) = ?`,
		walletID, prefix).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum monthly spend: %w", err)
	}
	return core.Money{Cents: total}, nil
}

func walletExists(ctx context.Context, tx *sql.Tx, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM wallets WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrWalletNotFound
	}
	if err != nil {
		return fmt.Errorf("check wallet %d: %w", id, err)
	}
	return nil
}

func adjustBalance(ctx context.Context, tx *sql.Tx, walletID, deltaCents int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + ? WHERE id = ?`, deltaCents, walletID)
	if err != nil {
		return fmt.Errorf("adjust balance of wallet %d: %w", walletID, err)
	}
	return nil
}
