// Package repository implements all database queries for the club event ledger.
// It uses pgx directly (no ORM) for transparency and performance.
//
// Every ledger mutation runs inside a transaction that first takes a
// row-level lock on the owning event (SELECT ... FOR UPDATE). Concurrent
// organizers acting on the same event are therefore serialised: two admins
// confirming the same attendee, or two bulk generations racing on the same
// payment rows, observe each other's writes instead of a stale snapshot.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicatePayment is returned by strict payment inserts when the attendee
// already has a payment record for the event.
var ErrDuplicatePayment = errors.New("payment already recorded for this attendee")

// ErrDuplicateUser is returned when a directory entry with the same email
// already exists.
var ErrDuplicateUser = errors.New("a user with this email already exists")

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// inTx runs fn inside a transaction and commits when it returns nil.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockEvent takes an exclusive row lock on the event for the rest of the
// transaction.
func lockEvent(ctx context.Context, tx pgx.Tx, eventID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	return nil
}

// numeric converts a decimal to its pgx NUMERIC representation.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// nullNumeric maps a nil decimal to SQL NULL.
func nullNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numeric(*d)
}

// toDecimal converts a scanned NUMERIC; NULL becomes zero.
func toDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// toNullDecimal converts a scanned NUMERIC; NULL becomes nil.
func toNullDecimal(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	return &d
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
