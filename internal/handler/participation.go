package handler

import (
	"context"
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/go-chi/chi/v5"
)

type participationCommand func(ctx context.Context, eventID, userID string) (model.ParticipationView, error)

// bodyCommand runs cmd for the user named in the request body.
func (h *Handler) bodyCommand(cmd participationCommand, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ParticipantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		view, err := cmd(r.Context(), chi.URLParam(r, "eventID"), req.UserID)
		if err != nil {
			h.fail(w, r, err, msg)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// pathCommand runs cmd for the user named in the URL.
func (h *Handler) pathCommand(cmd participationCommand, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := cmd(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "userID"))
		if err != nil {
			h.fail(w, r, err, msg)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// ToggleInterest handles POST /events/{eventID}/interest
func (h *Handler) ToggleInterest(w http.ResponseWriter, r *http.Request) {
	h.bodyCommand(h.svc.Participation.ToggleInterest, "failed to toggle interest")(w, r)
}

// RemoveInterest handles DELETE /events/{eventID}/interest/{userID}
func (h *Handler) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	h.pathCommand(h.svc.Participation.RemoveInterest, "failed to remove interest")(w, r)
}

// ConfirmAttendance handles POST /events/{eventID}/attendance
func (h *Handler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	h.bodyCommand(h.svc.Participation.ConfirmAttendance, "failed to confirm attendance")(w, r)
}

// CancelAttendance handles DELETE /events/{eventID}/attendance/{userID}
func (h *Handler) CancelAttendance(w http.ResponseWriter, r *http.Request) {
	h.pathCommand(h.svc.Participation.CancelAttendance, "failed to cancel attendance")(w, r)
}

// RemoveAttendee handles DELETE /events/{eventID}/attendees/{userID}
func (h *Handler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	h.pathCommand(h.svc.Participation.RemoveAttendee, "failed to remove attendee")(w, r)
}

// AddAttendee handles POST /events/{eventID}/attendees
// Optionally creates a linked payment record.
func (h *Handler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	var req model.AddAttendeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Participation.AddAttendee(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.fail(w, r, err, "failed to add attendee")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetParticipation handles GET /events/{eventID}/participants/{userID}
func (h *Handler) GetParticipation(w http.ResponseWriter, r *http.Request) {
	h.pathCommand(h.svc.Participation.GetParticipation, "failed to get participation")(w, r)
}

type userQuery func(ctx context.Context, eventID string) ([]model.User, error)

func (h *Handler) listUsers(q userQuery, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := q(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			h.fail(w, r, err, msg)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(users))
	}
}

// ListInterested handles GET /events/{eventID}/interested
func (h *Handler) ListInterested(w http.ResponseWriter, r *http.Request) {
	h.listUsers(h.svc.Participation.GetInterestedUsers, "failed to list interested users")(w, r)
}

// ListAttendees handles GET /events/{eventID}/attendees
func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	h.listUsers(h.svc.Participation.GetConfirmedAttendees, "failed to list attendees")(w, r)
}

// ListAvailableUsers handles GET /events/{eventID}/available-users
// Returns members who can still be added as attendees.
func (h *Handler) ListAvailableUsers(w http.ResponseWriter, r *http.Request) {
	h.listUsers(h.svc.Participation.GetAvailableUsers, "failed to list available users")(w, r)
}
