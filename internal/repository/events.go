package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.name, e.date, e.cost, e.status, e.capacity, e.created_at, e.updated_at,
	COUNT(p.user_id) FILTER (WHERE p.interested),
	COUNT(p.user_id) FILTER (WHERE p.confirmed)`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e    model.Event
		cost pgtype.Numeric
	)
	err := row.Scan(&e.ID, &e.Name, &e.Date, &cost, &e.Status, &e.Capacity, &e.CreatedAt, &e.UpdatedAt,
		&e.InterestedCount, &e.ConfirmedCount)
	if err != nil {
		return nil, err
	}
	e.Cost = toNullDecimal(cost)
	return &e, nil
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	now := time.Now().UTC()
	event := &model.Event{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Date:      req.Date,
		Cost:      req.Cost,
		Status:    req.Status,
		Capacity:  req.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, name, date, cost, status, capacity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Name, event.Date, nullNumeric(event.Cost), event.Status, event.Capacity,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// List returns all events ordered by date.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 LEFT JOIN participations p ON p.event_id = e.id
		 GROUP BY e.id
		 ORDER BY e.date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 LEFT JOIN participations p ON p.event_id = e.id
		 WHERE e.id = $1
		 GROUP BY e.id`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update locks the event, applies fn to it and writes the result back.
func (r *EventRepository) Update(ctx context.Context, id string, fn func(*model.Event) error) (*model.Event, error) {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var cost pgtype.Numeric
		e := model.Event{}
		err := tx.QueryRow(ctx,
			`SELECT id, name, date, cost, status, capacity, created_at, updated_at
			 FROM events WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&e.ID, &e.Name, &e.Date, &cost, &e.Status, &e.Capacity, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("event %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock event row: %w", err)
		}
		e.Cost = toNullDecimal(cost)

		if err := fn(&e); err != nil {
			return err
		}
		e.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE events SET name = $1, date = $2, cost = $3, status = $4, capacity = $5, updated_at = $6
			 WHERE id = $7`,
			e.Name, e.Date, nullNumeric(e.Cost), e.Status, e.Capacity, e.UpdatedAt, e.ID,
		)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Re-read for the participation counts.
	return r.GetByID(ctx, id)
}
