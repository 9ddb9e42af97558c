package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/go-chi/chi/v5"
)

// OfferLift handles POST /events/{eventID}/carpool/offers
func (h *Handler) OfferLift(w http.ResponseWriter, r *http.Request) {
	var req model.CarpoolOfferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	o, err := h.svc.Carpool.OfferLift(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to offer lift")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// ListOffers handles GET /events/{eventID}/carpool/offers
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.svc.Carpool.Offers(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to list lift offers")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(offers))
}

// WithdrawOffer handles DELETE /carpool/offers/{offerID}
func (h *Handler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Carpool.WithdrawOffer(r.Context(), chi.URLParam(r, "offerID")); err != nil {
		h.fail(w, r, err, "failed to withdraw lift offer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestLift handles PUT /events/{eventID}/carpool/requests
// A member has at most one request per event; a second call replaces it.
func (h *Handler) RequestLift(w http.ResponseWriter, r *http.Request) {
	var req model.CarpoolRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	q, err := h.svc.Carpool.RequestLift(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to request lift")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ListRequests handles GET /events/{eventID}/carpool/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.Carpool.Requests(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to list lift requests")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(reqs))
}

// WithdrawRequest handles DELETE /carpool/requests/{requestID}
func (h *Handler) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Carpool.WithdrawRequest(r.Context(), chi.URLParam(r, "requestID")); err != nil {
		h.fail(w, r, err, "failed to withdraw lift request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
