package http

import (
	"log/slog"
	"net/http"

	"github.com/Vivekgpta/Tracker/internal/core"
)

// Wire representations. Field names match what the client application
// stores and submits.
type (
	walletJSON struct {
		ID           int64      `json:"id"`
		Name         string     `json:"name"`
		Balance      core.Money `json:"balance"`
		MonthlyLimit core.Money `json:"monthly_limit"`
		Currency     string     `json:"currency"`
	}

	expenseJSON struct {
		ID          int64      `json:"id"`
		WalletID    int64      `json:"wallet_id"`
		Amount      core.Money `json:"amount"`
		Category    string     `json:"category"`
		Description string     `json:"description"`
		Date        core.Date  `json:"date"`
	}

	dataResponse struct {
		Wallets  []walletJSON  `json:"wallets"`
		Expenses []expenseJSON `json:"expenses"`
	}
)

func toWalletJSON(w core.Wallet) walletJSON {
	return walletJSON{
		ID:           w.ID,
		Name:         w.Name,
		Balance:      w.Balance,
		MonthlyLimit: w.MonthlyLimit,
		Currency:     w.Currency,
	}
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

// handleGetData returns every wallet and every expense in one payload.
// The client filters and aggregates locally.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	wallets, expenses, err := s.data.GetAllData(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	resp := dataResponse{
		Wallets:  make([]walletJSON, len(wallets)),
		Expenses: make([]expenseJSON, len(expenses)),
	}
	for i, wl := range wallets {
		resp.Wallets[i] = toWalletJSON(wl)
	}
	for i, e := range expenses {
		resp.Expenses[i] = toExpenseJSON(e)
	}

	writeJSON(w, http.StatusOK, resp)
}
