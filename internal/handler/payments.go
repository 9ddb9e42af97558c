package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/go-chi/chi/v5"
)

// RecordPayment handles POST /events/{eventID}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req model.RecordPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.EventID = chi.URLParam(r, "eventID")

	p, err := h.svc.Payments.Record(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "failed to record payment")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListEventPayments handles GET /events/{eventID}/payments
// Includes payments of users who are no longer attendees.
func (h *Handler) ListEventPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Payments.ListForEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(payments))
}

// BulkCreatePayments handles POST /events/{eventID}/payments/bulk
func (h *Handler) BulkCreatePayments(w http.ResponseWriter, r *http.Request) {
	// The body is optional.
	var req model.BulkCreatePaymentsRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Payments.BulkCreate(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to create payments")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PaymentStats handles GET /events/{eventID}/payments/stats
func (h *Handler) PaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Payments.Stats(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to compute payment stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListPayments handles GET /payments?event_id=&user_id=&status=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.PaymentFilter{
		EventID: q.Get("event_id"),
		UserID:  q.Get("user_id"),
		Status:  model.PaymentStatus(q.Get("status")),
	}

	payments, err := h.svc.Payments.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, err, "failed to list payments")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(payments))
}

// GetPayment handles GET /payments/{paymentID}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Payments.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		h.fail(w, r, err, "failed to get payment")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePayment handles PATCH /payments/{paymentID}
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Payments.Update(r.Context(), chi.URLParam(r, "paymentID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to update payment")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePayment handles DELETE /payments/{paymentID}
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Payments.Delete(r.Context(), chi.URLParam(r, "paymentID")); err != nil {
		h.fail(w, r, err, "failed to delete payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
