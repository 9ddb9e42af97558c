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

// ExpenseRepository handles persistence for event expenses.
type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository constructs an ExpenseRepository.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, event_id, category, description, amount, payment_status, payment_method, paid_by,
	expense_date, receipt_url, notes, created_by, created_at, updated_at`

func scanExpense(row pgx.Row) (*model.ExpenseRecord, error) {
	var (
		e                               model.ExpenseRecord
		amount                          pgtype.Numeric
		method, receipt, notes, creator *string
	)
	err := row.Scan(&e.ID, &e.EventID, &e.Category, &e.Description, &amount, &e.Status, &method, &e.PaidBy,
		&e.ExpenseDate, &receipt, &notes, &creator, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = toDecimal(amount)
	e.Method = model.PaymentMethod(deref(method))
	e.ReceiptURL = deref(receipt)
	e.Notes = deref(notes)
	e.CreatedBy = deref(creator)
	return &e, nil
}

// Create inserts an expense with a generated UUID.
func (r *ExpenseRepository) Create(ctx context.Context, e *model.ExpenseRecord) error {
	now := time.Now().UTC()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now

	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, e.EventID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO expenses (`+expenseColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			e.ID, e.EventID, e.Category, e.Description, numeric(e.Amount), e.Status, nullString(string(e.Method)),
			e.PaidBy, e.ExpenseDate, nullString(e.ReceiptURL), nullString(e.Notes), nullString(e.CreatedBy),
			e.CreatedAt, e.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return nil
	})
}

// GetByID returns a single expense or ErrNotFound.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*model.ExpenseRecord, error) {
	e, err := scanExpense(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Update locks the expense row, applies fn and writes the result back.
func (r *ExpenseRepository) Update(ctx context.Context, id string, fn func(*model.ExpenseRecord) error) (*model.ExpenseRecord, error) {
	var updated *model.ExpenseRecord
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		e, err := scanExpense(tx.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("expense %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lock expense row: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
		e.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE expenses
			 SET category = $1, description = $2, amount = $3, payment_status = $4, payment_method = $5,
			     paid_by = $6, expense_date = $7, receipt_url = $8, notes = $9, updated_at = $10
			 WHERE id = $11`,
			e.Category, e.Description, numeric(e.Amount), e.Status, nullString(string(e.Method)),
			e.PaidBy, e.ExpenseDate, nullString(e.ReceiptURL), nullString(e.Notes), e.UpdatedAt, e.ID,
		)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense and returns the deleted row.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) (*model.ExpenseRecord, error) {
	e, err := scanExpense(r.db.QueryRow(ctx, `DELETE FROM expenses WHERE id = $1 RETURNING `+expenseColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	return e, nil
}

// ListByEvent returns an event's expenses, most recent expense date first.
func (r *ExpenseRepository) ListByEvent(ctx context.Context, eventID string) ([]model.ExpenseRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE event_id = $1
		 ORDER BY expense_date DESC NULLS LAST, created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.ExpenseRecord
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}
