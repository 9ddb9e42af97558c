package memory

import (
	"context"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/google/uuid"
)

// ActivityRepository is the in-memory audit log.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository constructs an ActivityRepository over db.
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record appends one entry.
func (r *ActivityRepository) Record(_ context.Context, a *model.Activity) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a.ID = uuid.New().String()
	a.CreatedAt = now()
	r.db.activity = append(r.db.activity, *a)
	return nil
}

// Recent returns the latest entries, newest first.
func (r *ActivityRepository) Recent(_ context.Context, limit int) ([]model.Activity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := len(r.db.activity)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.Activity, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.db.activity[i])
	}
	return out, nil
}
