package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/go-chi/chi/v5"
)

// AddExpense handles POST /events/{eventID}/expenses
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.EventID = chi.URLParam(r, "eventID")

	e, err := h.svc.Expenses.Add(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "failed to add expense")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// ListExpenses handles GET /events/{eventID}/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.Expenses.ListForEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to list expenses")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(expenses))
}

// ExpenseSummary handles GET /events/{eventID}/expenses/summary
func (h *Handler) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Expenses.Summary(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to summarise expenses")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ExpenseBreakdown handles GET /events/{eventID}/expenses/breakdown
func (h *Handler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Expenses.Breakdown(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to break down expenses")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rows))
}

// GetExpense handles GET /expenses/{expenseID}
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Expenses.Get(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		h.fail(w, r, err, "failed to get expense")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateExpense handles PATCH /expenses/{expenseID}
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	e, err := h.svc.Expenses.Update(r.Context(), chi.URLParam(r, "expenseID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to update expense")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense handles DELETE /expenses/{expenseID}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Expenses.Delete(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		h.fail(w, r, err, "failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
