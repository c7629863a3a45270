package http

import (
	"log/slog"
	"net/http"

	"github.com/Vivekgpta/Tracker/internal/core"
	"github.com/Vivekgpta/Tracker/internal/log"
)

type alertRequest struct {
	Insight    string     `json:"insight"`
	WalletName string     `json:"walletName"`
	Limit      core.Money `json:"limit"`
}

// handleSendAlert records a limit-breach alert. The "email" is logged (and
// queued for the alert worker), never actually delivered.
func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.alerts.SendAlert(r.Context(), req.Insight, req.WalletName, req.Limit); err != nil {
		slog.ErrorContext(r.Context(), "Failed to send alert", log.FieldError, err, log.FieldWalletName, req.WalletName)
		writeError(w, http.StatusInternalServerError, "failed to send alert")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Alert 'sent' successfully",
	})
}

type insightRequest struct {
	WalletID int64 `json:"wallet_id"`
}

type insightResponse struct {
	Insight      string     `json:"insight"`
	MonthlySpend core.Money `json:"monthly_spend"`
	LimitReached bool       `json:"limit_reached"`
}

// handleInsight generates advisory commentary for a wallet. The generator
// is best-effort; it degrades to a fixed message rather than failing.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	wallet, err := s.wallets.GetWallet(r.Context(), req.WalletID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load wallet", log.FieldError, err, log.FieldWalletID, req.WalletID)
		writeError(w, http.StatusInternalServerError, "failed to load wallet")
		return
	}
	if wallet == nil {
		writeError(w, http.StatusUnprocessableEntity, "wallet does not exist")
		return
	}

	_, expenses, err := s.data.GetAllData(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load expense history", log.FieldError, err, log.FieldWalletID, req.WalletID)
		writeError(w, http.StatusInternalServerError, "failed to load expense history")
		return
	}

	now := nowFunc()
	spend, err := s.spend.MonthlySpend(r.Context(), wallet.ID, now.Year(), int(now.Month()))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute monthly spend", log.FieldError, err, log.FieldWalletID, req.WalletID)
		writeError(w, http.StatusInternalServerError, "failed to compute monthly spend")
		return
	}

	text := s.insights.GenerateInsight(r.Context(), *wallet, expenses)

	writeJSON(w, http.StatusOK, insightResponse{
		Insight:      text,
		MonthlySpend: spend,
		LimitReached: spend.Cents >= wallet.MonthlyLimit.Cents && wallet.MonthlyLimit.Cents > 0,
	})
}
