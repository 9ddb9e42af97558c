package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// EventSummary handles GET /events/{eventID}/summary
func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Reconciliation.EventSummary(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, r, err, "failed to summarise event")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Portfolio handles GET /portfolio?event_id=a,b
// Without event_id every non-cancelled event is included.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["event_id"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	portfolio, err := h.svc.Reconciliation.Portfolio(r.Context(), ids)
	if err != nil {
		h.fail(w, r, err, "failed to build portfolio")
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

// RecentActivity handles GET /activity?limit=
func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.svc.Activity.Recent(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err, "failed to list activity")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}
