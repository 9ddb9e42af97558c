package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CarpoolRepository stores lift offers and requests per event.
type CarpoolRepository struct {
	db *pgxpool.Pool
}

// NewCarpoolRepository constructs a CarpoolRepository.
func NewCarpoolRepository(db *pgxpool.Pool) *CarpoolRepository {
	return &CarpoolRepository{db: db}
}

const offerColumns = `id, event_id, user_id, departure_location, available_seats, departure_time, notes, created_at`

func scanOffer(row pgx.Row) (*model.CarpoolOffer, error) {
	var (
		o     model.CarpoolOffer
		notes *string
	)
	err := row.Scan(&o.ID, &o.EventID, &o.UserID, &o.DepartureLocation, &o.AvailableSeats, &o.DepartureTime, &notes, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Notes = deref(notes)
	return &o, nil
}

// CreateOffer inserts a lift offer.
func (r *CarpoolRepository) CreateOffer(ctx context.Context, o *model.CarpoolOffer) error {
	o.ID = uuid.New().String()
	o.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO carpool_offers (`+offerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.EventID, o.UserID, o.DepartureLocation, o.AvailableSeats, o.DepartureTime, nullString(o.Notes), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert carpool offer: %w", err)
	}
	return nil
}

// ListOffers returns an event's offers, newest first.
func (r *CarpoolRepository) ListOffers(ctx context.Context, eventID string) ([]model.CarpoolOffer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+offerColumns+` FROM carpool_offers WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list carpool offers: %w", err)
	}
	defer rows.Close()

	var offers []model.CarpoolOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan carpool offer: %w", err)
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

// DeleteOffer removes an offer and returns it.
func (r *CarpoolRepository) DeleteOffer(ctx context.Context, id string) (*model.CarpoolOffer, error) {
	o, err := scanOffer(r.db.QueryRow(ctx, `DELETE FROM carpool_offers WHERE id = $1 RETURNING `+offerColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("carpool offer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("delete carpool offer: %w", err)
	}
	return o, nil
}

const requestColumns = `id, event_id, user_id, pickup_location, notes, created_at`

func scanRequest(row pgx.Row) (*model.CarpoolRequest, error) {
	var (
		q     model.CarpoolRequest
		notes *string
	)
	if err := row.Scan(&q.ID, &q.EventID, &q.UserID, &q.PickupLocation, &notes, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.Notes = deref(notes)
	return &q, nil
}

// UpsertRequest stores the user's lift request, replacing an earlier one for
// the same event.
func (r *CarpoolRepository) UpsertRequest(ctx context.Context, q *model.CarpoolRequest) error {
	saved, err := scanRequest(r.db.QueryRow(ctx,
		`INSERT INTO carpool_requests (`+requestColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (event_id, user_id) DO UPDATE
		 SET pickup_location = EXCLUDED.pickup_location, notes = EXCLUDED.notes
		 RETURNING `+requestColumns,
		uuid.New().String(), q.EventID, q.UserID, q.PickupLocation, nullString(q.Notes), time.Now().UTC(),
	))
	if err != nil {
		return fmt.Errorf("upsert carpool request: %w", err)
	}
	*q = *saved
	return nil
}

// ListRequests returns an event's lift requests, newest first.
func (r *CarpoolRepository) ListRequests(ctx context.Context, eventID string) ([]model.CarpoolRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM carpool_requests WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list carpool requests: %w", err)
	}
	defer rows.Close()

	var reqs []model.CarpoolRequest
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan carpool request: %w", err)
		}
		reqs = append(reqs, *q)
	}
	return reqs, rows.Err()
}

// DeleteRequest removes a lift request and returns it.
func (r *CarpoolRepository) DeleteRequest(ctx context.Context, id string) (*model.CarpoolRequest, error) {
	q, err := scanRequest(r.db.QueryRow(ctx, `DELETE FROM carpool_requests WHERE id = $1 RETURNING `+requestColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("carpool request %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("delete carpool request: %w", err)
	}
	return q, nil
}
