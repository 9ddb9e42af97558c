package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/go-chi/chi/v5"
)

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Events.CreateEvent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Events.ListEvents(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

// GetEvent handles GET /events/{eventID}
// The response carries the interested and confirmed counts.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Events.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PATCH /events/{eventID}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Events.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Events.CreateUser(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Events.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}
