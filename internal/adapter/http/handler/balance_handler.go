package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/adapter/http/dto"
	"github.com/splitpot/splitpot/internal/usecase"
)

// BalanceHandler serves balance sheets, settlement plans and consistency
// reports for a group.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GetBalances returns the group's current balance sheet.
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	sheet, err := h.balanceUC.GetBalances(r.Context(), groupID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute balances", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(sheet))
}

// SuggestSettlements returns the minimal transfer plan settling the group.
func (h *BalanceHandler) SuggestSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	transfers, err := h.balanceUC.SuggestSettlements(r.Context(), groupID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to plan settlements", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}

// Verify recomputes the group's history and reports invariant violations.
func (h *BalanceHandler) Verify(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	report, err := h.balanceUC.VerifyGroup(r.Context(), groupID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to verify group", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyFromReport(report))
}
