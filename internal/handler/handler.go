// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/service"
)

// Handler holds all HTTP handlers for the ledger API.
type Handler struct {
	svc *service.Services
	log *slog.Logger
}

// New constructs a Handler.
func New(svc *service.Services, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// fail maps a service error to its HTTP status. Messages of client errors
// name the record and action that failed.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	// Aggregate errors join per-event causes, which may themselves be not found.
	case errors.Is(err, service.ErrAggregateFetch):
		h.log.ErrorContext(r.Context(), msg, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, service.ErrAggregateFetch.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.ErrorContext(r.Context(), msg, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// nonNil returns an empty slice rather than null for better client
// compatibility.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
