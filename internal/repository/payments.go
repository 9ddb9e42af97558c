package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository handles persistence for attendee payments.
type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, event_id, user_id, amount, payment_status, payment_method, payment_date,
	notes, created_by, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.PaymentRecord, error) {
	var (
		p                      model.PaymentRecord
		amount                 pgtype.Numeric
		method, notes, creator *string
	)
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &amount, &p.Status, &method, &p.PaymentDate,
		&notes, &creator, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount = toDecimal(amount)
	p.Method = model.PaymentMethod(deref(method))
	p.Notes = deref(notes)
	p.CreatedBy = deref(creator)
	return &p, nil
}

// insertPayment assigns an id and timestamps to p and inserts it within tx.
func insertPayment(ctx context.Context, tx pgx.Tx, p *model.PaymentRecord) error {
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := tx.Exec(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.EventID, p.UserID, numeric(p.Amount), p.Status, nullString(string(p.Method)), p.PaymentDate,
		nullString(p.Notes), nullString(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment for user %s: %w", p.UserID, err)
	}
	return nil
}

// Create inserts one payment. With unique set, it fails with
// ErrDuplicatePayment if the attendee already has a record for the event.
func (r *PaymentRepository) Create(ctx context.Context, p *model.PaymentRecord, unique bool) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, p.EventID); err != nil {
			return err
		}
		if unique {
			var exists bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM payments WHERE event_id = $1 AND user_id = $2)`,
				p.EventID, p.UserID,
			).Scan(&exists)
			if err != nil {
				return fmt.Errorf("check duplicate payment: %w", err)
			}
			if exists {
				return ErrDuplicatePayment
			}
		}
		return insertPayment(ctx, tx, p)
	})
}

// GetByID returns a single payment or ErrNotFound.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*model.PaymentRecord, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// Update locks the payment row, applies fn and writes the result back.
func (r *PaymentRepository) Update(ctx context.Context, id string, fn func(*model.PaymentRecord) error) (*model.PaymentRecord, error) {
	var updated *model.PaymentRecord
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("payment %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock payment row: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE payments
			 SET amount = $1, payment_status = $2, payment_method = $3, payment_date = $4, notes = $5, updated_at = $6
			 WHERE id = $7`,
			numeric(p.Amount), p.Status, nullString(string(p.Method)), p.PaymentDate, nullString(p.Notes), p.UpdatedAt, p.ID,
		)
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a payment and returns the deleted row.
func (r *PaymentRepository) Delete(ctx context.Context, id string) (*model.PaymentRecord, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `DELETE FROM payments WHERE id = $1 RETURNING `+paymentColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("delete payment: %w", err)
	}
	return p, nil
}

// List returns the payments matching f, newest first.
func (r *PaymentRepository) List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentRecord, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.EventID != "" {
		add("event_id = $%d", f.EventID)
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		add("payment_status = $%d", f.Status)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []model.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// BulkCreate inserts one payment, cloned from tmpl, for every confirmed
// attendee of the event that has no payment record yet.
//
// The scan for missing attendees and the inserts happen under the event row
// lock, so a concurrent BulkCreate on the same event blocks until this one
// commits and then finds nobody left to create a record for.
func (r *PaymentRepository) BulkCreate(ctx context.Context, eventID string, tmpl model.PaymentRecord) ([]model.PaymentRecord, error) {
	var created []model.PaymentRecord
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx,
			`SELECT pa.user_id
			 FROM participations pa
			 WHERE pa.event_id = $1
			   AND pa.confirmed
			   AND NOT EXISTS (
			     SELECT 1 FROM payments pm
			     WHERE pm.event_id = pa.event_id AND pm.user_id = pa.user_id
			   )
			 ORDER BY pa.created_at ASC, pa.user_id ASC`,
			eventID,
		)
		if err != nil {
			return fmt.Errorf("find attendees without payment: %w", err)
		}
		userIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("scan attendee: %w", err)
		}

		for _, userID := range userIDs {
			p := tmpl
			p.EventID = eventID
			p.UserID = userID
			if err := insertPayment(ctx, tx, &p); err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
