package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipationRepository stores the interest/attendance flags per
// (event, user) pair.
type ParticipationRepository struct {
	db *pgxpool.Pool
}

// NewParticipationRepository constructs a ParticipationRepository.
func NewParticipationRepository(db *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findParticipation(ctx context.Context, q querier, eventID, userID string, forUpdate bool) (model.Participation, error) {
	query := `SELECT event_id, user_id, interested, confirmed, created_at, updated_at
		 FROM participations WHERE event_id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var rec model.ParticipationRecord
	err := q.QueryRow(ctx, query, eventID, userID).
		Scan(&rec.EventID, &rec.UserID, &rec.Interested, &rec.Confirmed, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Participation{Record: model.ParticipationRecord{EventID: eventID, UserID: userID}}, nil
		}
		return model.Participation{}, fmt.Errorf("get participation: %w", err)
	}
	return model.Participation{Record: rec, Present: true}, nil
}

// Find returns the participation for the pair. Present is false when no
// record exists.
func (r *ParticipationRepository) Find(ctx context.Context, eventID, userID string) (model.Participation, error) {
	return findParticipation(ctx, r.db, eventID, userID, false)
}

// Apply runs transition t against the current record while holding the event
// lock, then upserts or deletes the record to match the result.
func (r *ParticipationRepository) Apply(ctx context.Context, eventID, userID string, t model.Transition) (model.Participation, error) {
	var next model.Participation
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		next, err = applyTransition(ctx, tx, eventID, userID, t)
		return err
	})
	return next, err
}

func applyTransition(ctx context.Context, tx pgx.Tx, eventID, userID string, t model.Transition) (model.Participation, error) {
	if err := lockEvent(ctx, tx, eventID); err != nil {
		return model.Participation{}, err
	}

	cur, err := findParticipation(ctx, tx, eventID, userID, true)
	if err != nil {
		return model.Participation{}, err
	}

	next, err := t(cur)
	if err != nil {
		return model.Participation{}, err
	}
	next.Record.EventID = eventID
	next.Record.UserID = userID

	now := time.Now().UTC()
	switch {
	case next.Present:
		if !cur.Present {
			next.Record.CreatedAt = now
		}
		next.Record.UpdatedAt = now
		_, err = tx.Exec(ctx,
			`INSERT INTO participations (event_id, user_id, interested, confirmed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (event_id, user_id) DO UPDATE
			 SET interested = EXCLUDED.interested, confirmed = EXCLUDED.confirmed, updated_at = EXCLUDED.updated_at`,
			eventID, userID, next.Record.Interested, next.Record.Confirmed, next.Record.CreatedAt, next.Record.UpdatedAt,
		)
		if err != nil {
			return model.Participation{}, fmt.Errorf("upsert participation: %w", err)
		}
	case cur.Present:
		_, err = tx.Exec(ctx,
			`DELETE FROM participations WHERE event_id = $1 AND user_id = $2`,
			eventID, userID,
		)
		if err != nil {
			return model.Participation{}, fmt.Errorf("delete participation: %w", err)
		}
	}
	return next, nil
}

// ConfirmWithPayment confirms the user and, when payment is non-nil and the
// user has no payment for the event yet, inserts it in the same transaction.
// The inserted payment is returned, or nil when none was created.
func (r *ParticipationRepository) ConfirmWithPayment(ctx context.Context, eventID, userID string, payment *model.PaymentRecord) (model.Participation, *model.PaymentRecord, error) {
	var (
		next    model.Participation
		created *model.PaymentRecord
	)
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		next, err = applyTransition(ctx, tx, eventID, userID, model.ConfirmAttendance)
		if err != nil || payment == nil {
			return err
		}

		var exists bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE event_id = $1 AND user_id = $2)`,
			eventID, userID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check existing payment: %w", err)
		}
		if exists {
			return nil
		}

		p := *payment
		p.EventID = eventID
		p.UserID = userID
		if err := insertPayment(ctx, tx, &p); err != nil {
			return err
		}
		created = &p
		return nil
	})
	if err != nil {
		return model.Participation{}, nil, err
	}
	return next, created, nil
}

// ListByEvent returns every stored record for an event in creation order.
func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.ParticipationRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT event_id, user_id, interested, confirmed, created_at, updated_at
		 FROM participations
		 WHERE event_id = $1
		 ORDER BY created_at ASC, user_id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	defer rows.Close()

	var recs []model.ParticipationRecord
	for rows.Next() {
		var rec model.ParticipationRecord
		if err := rows.Scan(&rec.EventID, &rec.UserID, &rec.Interested, &rec.Confirmed, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
