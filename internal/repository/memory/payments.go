package memory

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/google/uuid"
)

// PaymentRepository is the in-memory payment ledger.
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository constructs a PaymentRepository over db.
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func clonePayment(p model.PaymentRecord) model.PaymentRecord {
	p.PaymentDate = clonePtr(p.PaymentDate)
	return p
}

// insertPayment assigns an id and timestamps to p and stores a copy.
// Callers hold db.mu.
func (db *DB) insertPayment(p *model.PaymentRecord) {
	ts := now()
	p.ID = uuid.New().String()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	db.payments[p.ID] = row[model.PaymentRecord]{seq: db.next(), v: clonePayment(*p)}
}

// Create inserts one payment. With unique set, it fails with
// ErrDuplicatePayment if the attendee already has a record for the event.
func (r *PaymentRepository) Create(_ context.Context, p *model.PaymentRecord, unique bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.requireEvent(p.EventID); err != nil {
		return err
	}
	if unique && r.db.hasPayment(p.EventID, p.UserID) {
		return repository.ErrDuplicatePayment
	}
	r.db.insertPayment(p)
	return nil
}

// GetByID returns a single payment or ErrNotFound.
func (r *PaymentRepository) GetByID(_ context.Context, id string) (*model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, repository.ErrNotFound)
	}
	p := clonePayment(stored.v)
	return &p, nil
}

// Update applies fn to a copy of the payment and stores it if fn succeeds.
func (r *PaymentRepository) Update(_ context.Context, id string, fn func(*model.PaymentRecord) error) (*model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, repository.ErrNotFound)
	}
	p := clonePayment(stored.v)
	if err := fn(&p); err != nil {
		return nil, err
	}
	p.UpdatedAt = now()
	stored.v = clonePayment(p)
	r.db.payments[id] = stored
	return &p, nil
}

// Delete removes a payment and returns it.
func (r *PaymentRepository) Delete(_ context.Context, id string) (*model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, repository.ErrNotFound)
	}
	delete(r.db.payments, id)
	p := stored.v
	return &p, nil
}

// List returns the payments matching f, newest first.
func (r *PaymentRepository) List(_ context.Context, f model.PaymentFilter) ([]model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	payments := reversed(sortedRows(r.db.payments, f.Match))
	for i := range payments {
		payments[i] = clonePayment(payments[i])
	}
	return payments, nil
}

// BulkCreate inserts one payment, cloned from tmpl, for every confirmed
// attendee of the event that has no payment record yet.
func (r *PaymentRepository) BulkCreate(_ context.Context, eventID string, tmpl model.PaymentRecord) ([]model.PaymentRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.requireEvent(eventID); err != nil {
		return nil, err
	}

	attendees := sortedRows(r.db.parts, func(rec model.ParticipationRecord) bool {
		return rec.EventID == eventID && rec.Confirmed
	})

	var created []model.PaymentRecord
	for _, rec := range attendees {
		if r.db.hasPayment(eventID, rec.UserID) {
			continue
		}
		p := clonePayment(tmpl)
		p.EventID = eventID
		p.UserID = rec.UserID
		r.db.insertPayment(&p)
		created = append(created, p)
	}
	return created, nil
}
