package http

import (
	"log/slog"
	"net/http"

	"github.com/Vivekgpta/Tracker/internal/core"
)

type walletRequest struct {
	Name         string     `json:"name"`
	Balance      core.Money `json:"balance"`
	MonthlyLimit core.Money `json:"monthly_limit"`
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wallet := core.Wallet{
		Name:         req.Name,
		Balance:      req.Balance,
		MonthlyLimit: req.MonthlyLimit,
		Currency:     core.DefaultCurrency,
	}
	if err := wallet.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.wallets.CreateWallet(r.Context(), wallet)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create wallet", "error", err, "name", wallet.Name)
		writeError(w, http.StatusInternalServerError, "failed to create wallet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// handleUpdateWallet replaces name, balance and monthly limit directly.
// Balance written here is taken at face value; the ledger does not
// reconcile it against expense history.
func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req walletRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wallet := core.Wallet{
		ID:           id,
		Name:         req.Name,
		Balance:      req.Balance,
		MonthlyLimit: req.MonthlyLimit,
	}
	if err := wallet.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	found, err := s.wallets.UpdateWallet(r.Context(), wallet)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to update wallet", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update wallet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": found})
}
