package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vivekgpta/Tracker/internal/amqp"
	"github.com/Vivekgpta/Tracker/internal/core"
	"github.com/Vivekgpta/Tracker/internal/ledger"
	"github.com/Vivekgpta/Tracker/internal/log"
	"github.com/Vivekgpta/Tracker/internal/storage"
)

// LedgerService fronts the SQLite repository for the HTTP layer and owns the
// limit-alert path. Alert delivery is a log line plus a best-effort AMQP
// publish; neither may fail the user's action.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

// Ensure interface conformance
var (
	_ ledger.ExpenseLedger = (*LedgerService)(nil)
	_ ledger.WalletStore   = (*LedgerService)(nil)
	_ ledger.DataReader    = (*LedgerService)(nil)
	_ ledger.SpendReader   = (*LedgerService)(nil)
	_ ledger.AlertSink     = (*LedgerService)(nil)
)

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	return s.storage.CreateExpense(ctx, e)
}

func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) (bool, error) {
	return s.storage.UpdateExpense(ctx, e)
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	return s.storage.DeleteExpense(ctx, id)
}

func (s *LedgerService) CreateWallet(ctx context.Context, w core.Wallet) (int64, error) {
	return s.storage.CreateWallet(ctx, w)
}

func (s *LedgerService) UpdateWallet(ctx context.Context, w core.Wallet) (bool, error) {
	return s.storage.UpdateWallet(ctx, w)
}

func (s *LedgerService) GetWallet(ctx context.Context, id int64) (*core.Wallet, error) {
	return s.storage.GetWallet(ctx, id)
}

func (s *LedgerService) GetAllData(ctx context.Context) ([]core.Wallet, []core.Expense, error) {
	return s.storage.GetAllData(ctx)
}

func (s *LedgerService) MonthlySpend(ctx context.Context, walletID int64, year, month int) (core.Money, error) {
	return s.storage.MonthlySpend(ctx, walletID, year, month)
}

// SendAlert logs the alert "email" and publishes it for the alert worker.
// No real delivery happens anywhere in the system.
func (s *LedgerService) SendAlert(ctx context.Context, insight, walletName string, limit core.Money) error {
	slog.InfoContext(ctx, "[EMAIL ALERT] To: user@example.com",
		"subject", "Spending Limit Alert for "+walletName,
		"body", "You have exceeded your limit of "+limit.String()+".",
		"ai_insights", insight,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpAlert)

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping alert message")
		return nil
	}

	if err := s.amqpClient.PublishLimitAlert(ctx, amqp.NewAlertMessage(walletName, limit, insight)); err != nil {
		// Alert is advisory; the logged line above already happened.
		slog.ErrorContext(ctx, "Failed to publish alert message",
			log.FieldWalletName, walletName,
			log.FieldError, err,
			log.FieldComponent, log.ComponentAMQP)
	}

	return nil
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
