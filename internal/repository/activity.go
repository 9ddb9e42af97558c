package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository appends to the audit log.
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record appends one entry.
func (r *ActivityRepository) Record(ctx context.Context, a *model.Activity) error {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO activity_log (id, actor_id, action, entity_type, entity_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, nullString(a.ActorID), a.Action, nullString(a.EntityType), nullString(a.EntityID), nullString(a.Details), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		 FROM activity_log ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var (
			a                                model.Activity
			actor, entityType, entityID, det *string
		)
		if err := rows.Scan(&a.ID, &actor, &a.Action, &entityType, &entityID, &det, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ActorID = deref(actor)
		a.EntityType = deref(entityType)
		a.EntityID = deref(entityID)
		a.Details = deref(det)
		out = append(out, a)
	}
	return out, rows.Err()
}
