package memory

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/google/uuid"
)

// CarpoolRepository is the in-memory carpool board.
type CarpoolRepository struct {
	db *DB
}

// NewCarpoolRepository constructs a CarpoolRepository over db.
func NewCarpoolRepository(db *DB) *CarpoolRepository {
	return &CarpoolRepository{db: db}
}

// CreateOffer stores a lift offer.
func (r *CarpoolRepository) CreateOffer(_ context.Context, o *model.CarpoolOffer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o.ID = uuid.New().String()
	o.CreatedAt = now()
	v := *o
	v.DepartureTime = clonePtr(o.DepartureTime)
	r.db.offers[o.ID] = row[model.CarpoolOffer]{seq: r.db.next(), v: v}
	return nil
}

// ListOffers returns an event's offers, newest first.
func (r *CarpoolRepository) ListOffers(_ context.Context, eventID string) ([]model.CarpoolOffer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return reversed(sortedRows(r.db.offers, func(o model.CarpoolOffer) bool {
		return o.EventID == eventID
	})), nil
}

// DeleteOffer removes an offer and returns it.
func (r *CarpoolRepository) DeleteOffer(_ context.Context, id string) (*model.CarpoolOffer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.offers[id]
	if !ok {
		return nil, fmt.Errorf("carpool offer %s: %w", id, repository.ErrNotFound)
	}
	delete(r.db.offers, id)
	o := stored.v
	return &o, nil
}

// UpsertRequest stores the user's lift request, replacing an earlier one for
// the same event.
func (r *CarpoolRepository) UpsertRequest(_ context.Context, q *model.CarpoolRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, stored := range r.db.requests {
		if stored.v.EventID == q.EventID && stored.v.UserID == q.UserID {
			stored.v.PickupLocation = q.PickupLocation
			stored.v.Notes = q.Notes
			r.db.requests[id] = stored
			*q = stored.v
			return nil
		}
	}

	q.ID = uuid.New().String()
	q.CreatedAt = now()
	r.db.requests[q.ID] = row[model.CarpoolRequest]{seq: r.db.next(), v: *q}
	return nil
}

// ListRequests returns an event's lift requests, newest first.
func (r *CarpoolRepository) ListRequests(_ context.Context, eventID string) ([]model.CarpoolRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return reversed(sortedRows(r.db.requests, func(q model.CarpoolRequest) bool {
		return q.EventID == eventID
	})), nil
}

// DeleteRequest removes a lift request and returns it.
func (r *CarpoolRepository) DeleteRequest(_ context.Context, id string) (*model.CarpoolRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.requests[id]
	if !ok {
		return nil, fmt.Errorf("carpool request %s: %w", id, repository.ErrNotFound)
	}
	delete(r.db.requests, id)
	q := stored.v
	return &q, nil
}
