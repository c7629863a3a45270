package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vivekgpta/Tracker/internal/core"
	"github.com/Vivekgpta/Tracker/internal/log"
	"github.com/Vivekgpta/Tracker/internal/storage"
)

type expenseRequest struct {
	WalletID    int64      `json:"wallet_id"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        core.Date  `json:"date"`
}

func (req expenseRequest) toExpense(id int64) core.Expense {
	return core.Expense{
		ID:          id,
		WalletID:    req.WalletID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense := req.toExpense(0)
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.expenses.CreateExpense(r.Context(), expense)
	if errors.Is(err, storage.ErrWalletNotFound) {
		writeError(w, http.StatusUnprocessableEntity, "wallet does not exist")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create expense",
			log.FieldError, err,
			log.FieldWalletID, expense.WalletID,
			log.FieldAmountCents, expense.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense := req.toExpense(id)
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	found, err := s.expenses.UpdateExpense(r.Context(), expense)
	if errors.Is(err, storage.ErrWalletNotFound) {
		writeError(w, http.StatusUnprocessableEntity, "wallet does not exist")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	// Missing id is a logical failure, not an HTTP error: the client
	// contract is 200 with success=false.
	writeJSON(w, http.StatusOK, map[string]bool{"success": found})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := s.expenses.DeleteExpense(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": found})
}
