package memory

import (
	"context"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
)

// ParticipationRepository is the in-memory participation store.
type ParticipationRepository struct {
	db *DB
}

// NewParticipationRepository constructs a ParticipationRepository over db.
func NewParticipationRepository(db *DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (db *DB) participation(eventID, userID string) model.Participation {
	stored, ok := db.parts[partKey{eventID, userID}]
	if !ok {
		return model.Participation{Record: model.ParticipationRecord{EventID: eventID, UserID: userID}}
	}
	return model.Participation{Record: stored.v, Present: true}
}

func (db *DB) applyTransition(eventID, userID string, t model.Transition) (model.Participation, error) {
	if err := db.requireEvent(eventID); err != nil {
		return model.Participation{}, err
	}

	key := partKey{eventID, userID}
	cur := db.participation(eventID, userID)
	next, err := t(cur)
	if err != nil {
		return model.Participation{}, err
	}
	next.Record.EventID = eventID
	next.Record.UserID = userID

	ts := now()
	switch {
	case next.Present:
		stored, ok := db.parts[key]
		if !ok {
			stored.seq = db.next()
			next.Record.CreatedAt = ts
		}
		next.Record.UpdatedAt = ts
		stored.v = next.Record
		db.parts[key] = stored
	case cur.Present:
		delete(db.parts, key)
	}
	return next, nil
}

// Find returns the participation for the pair. Present is false when no
// record exists.
func (r *ParticipationRepository) Find(_ context.Context, eventID, userID string) (model.Participation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.participation(eventID, userID), nil
}

// Apply runs t against the current record and stores the result.
func (r *ParticipationRepository) Apply(_ context.Context, eventID, userID string, t model.Transition) (model.Participation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.applyTransition(eventID, userID, t)
}

// ConfirmWithPayment confirms the user and inserts payment when the user has
// no payment for the event yet.
func (r *ParticipationRepository) ConfirmWithPayment(_ context.Context, eventID, userID string, payment *model.PaymentRecord) (model.Participation, *model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	next, err := r.db.applyTransition(eventID, userID, model.ConfirmAttendance)
	if err != nil {
		return model.Participation{}, nil, err
	}
	if payment == nil || r.db.hasPayment(eventID, userID) {
		return next, nil, nil
	}

	p := *payment
	p.EventID = eventID
	p.UserID = userID
	r.db.insertPayment(&p)
	return next, &p, nil
}

// ListByEvent returns every stored record for an event in creation order.
func (r *ParticipationRepository) ListByEvent(_ context.Context, eventID string) ([]model.ParticipationRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return sortedRows(r.db.parts, func(rec model.ParticipationRecord) bool {
		return rec.EventID == eventID
	}), nil
}
