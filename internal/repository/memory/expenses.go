package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/google/uuid"
)

// ExpenseRepository is the in-memory expense ledger.
type ExpenseRepository struct {
	db *DB
}

// NewExpenseRepository constructs an ExpenseRepository over db.
func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func cloneExpense(e model.ExpenseRecord) model.ExpenseRecord {
	e.PaidBy = clonePtr(e.PaidBy)
	e.ExpenseDate = clonePtr(e.ExpenseDate)
	return e
}

// Create stores an expense with a generated UUID.
func (r *ExpenseRepository) Create(_ context.Context, e *model.ExpenseRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.requireEvent(e.EventID); err != nil {
		return err
	}
	ts := now()
	e.ID = uuid.New().String()
	e.CreatedAt = ts
	e.UpdatedAt = ts
	r.db.expenses[e.ID] = row[model.ExpenseRecord]{seq: r.db.next(), v: cloneExpense(*e)}
	return nil
}

// GetByID returns a single expense or ErrNotFound.
func (r *ExpenseRepository) GetByID(_ context.Context, id string) (*model.ExpenseRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, repository.ErrNotFound)
	}
	e := cloneExpense(stored.v)
	return &e, nil
}

// Update applies fn to a copy of the expense and stores it if fn succeeds.
func (r *ExpenseRepository) Update(_ context.Context, id string, fn func(*model.ExpenseRecord) error) (*model.ExpenseRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, repository.ErrNotFound)
	}
	e := cloneExpense(stored.v)
	if err := fn(&e); err != nil {
		return nil, err
	}
	e.UpdatedAt = now()
	stored.v = cloneExpense(e)
	r.db.expenses[id] = stored
	return &e, nil
}

// Delete removes an expense and returns it.
func (r *ExpenseRepository) Delete(_ context.Context, id string) (*model.ExpenseRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, repository.ErrNotFound)
	}
	delete(r.db.expenses, id)
	e := stored.v
	return &e, nil
}

// ListByEvent returns an event's expenses, most recent expense date first and
// undated ones last.
func (r *ExpenseRepository) ListByEvent(_ context.Context, eventID string) ([]model.ExpenseRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	expenses := reversed(sortedRows(r.db.expenses, func(e model.ExpenseRecord) bool {
		return e.EventID == eventID
	}))
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i].ExpenseDate, expenses[j].ExpenseDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	for i := range expenses {
		expenses[i] = cloneExpense(expenses[i])
	}
	return expenses, nil
}
