package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// ExpenseService manages event-level spending. Expense statuses are plain
// labels and may change in any order.
type ExpenseService struct {
	events   EventStore
	users    UserDirectory
	expenses ExpenseStore
	audit    *activityLog
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(st Stores, audit *activityLog) *ExpenseService {
	return &ExpenseService{events: st.Events, users: st.Users, expenses: st.Expenses, audit: audit}
}

func validExpenseStatus(status model.ExpenseStatus) (model.ExpenseStatus, error) {
	if status == "" {
		return model.ExpensePending, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown expense status %q", ErrValidation, status)
	}
	return status, nil
}

func (s *ExpenseService) validPayer(ctx context.Context, paidBy *string) error {
	if paidBy == nil || *paidBy == "" {
		return nil
	}
	_, err := s.users.GetByID(ctx, *paidBy)
	return err
}

// Add stores a new expense.
func (s *ExpenseService) Add(ctx context.Context, req model.ExpenseRequest) (*model.ExpenseRecord, error) {
	fail := func(err error) (*model.ExpenseRecord, error) {
		return nil, fmt.Errorf("add expense event=%s: %w", req.EventID, err)
	}

	req.Description = strings.TrimSpace(req.Description)
	switch {
	case req.EventID == "":
		return fail(fmt.Errorf("%w: event id is required", ErrValidation))
	case !req.Category.Valid():
		return fail(fmt.Errorf("%w: unknown expense category %q", ErrValidation, req.Category))
	case req.Description == "":
		return fail(fmt.Errorf("%w: description is required", ErrValidation))
	case req.Amount == nil:
		return fail(fmt.Errorf("%w: amount is required", ErrValidation))
	case req.Amount.IsNegative():
		return fail(fmt.Errorf("%w: amount cannot be negative", ErrValidation))
	case !req.Method.Valid():
		return fail(fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.Method))
	}
	status, err := validExpenseStatus(req.Status)
	if err != nil {
		return fail(err)
	}
	if err := s.validPayer(ctx, req.PaidBy); err != nil {
		return fail(err)
	}

	e := &model.ExpenseRecord{
		EventID:     req.EventID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      *req.Amount,
		Status:      status,
		Method:      req.Method,
		PaidBy:      req.PaidBy,
		ExpenseDate: req.ExpenseDate,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
		CreatedBy:   ActorFrom(ctx),
	}
	if e.PaidBy != nil && *e.PaidBy == "" {
		e.PaidBy = nil
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return fail(err)
	}

	s.audit.record(ctx, "expense.add", "expense", e.ID, map[string]any{
		"event_id": e.EventID,
		"category": e.Category,
		"amount":   e.Amount,
	})
	return e, nil
}

// Get returns one expense.
func (s *ExpenseService) Get(ctx context.Context, id string) (*model.ExpenseRecord, error) {
	return s.expenses.GetByID(ctx, id)
}

// Update patches an expense.
func (s *ExpenseService) Update(ctx context.Context, id string, req model.UpdateExpenseRequest) (*model.ExpenseRecord, error) {
	if err := s.validPayer(ctx, req.PaidBy); err != nil {
		return nil, fmt.Errorf("update expense %s: %w", id, err)
	}

	e, err := s.expenses.Update(ctx, id, func(e *model.ExpenseRecord) error {
		if req.Category != nil {
			if !req.Category.Valid() {
				return fmt.Errorf("%w: unknown expense category %q", ErrValidation, *req.Category)
			}
			e.Category = *req.Category
		}
		if req.Description != nil {
			desc := strings.TrimSpace(*req.Description)
			if desc == "" {
				return fmt.Errorf("%w: description cannot be empty", ErrValidation)
			}
			e.Description = desc
		}
		if req.Amount != nil {
			if req.Amount.IsNegative() {
				return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
			}
			e.Amount = *req.Amount
		}
		if req.Status != nil {
			status, err := validExpenseStatus(*req.Status)
			if err != nil {
				return err
			}
			e.Status = status
		}
		if req.Method != nil {
			if !req.Method.Valid() {
				return fmt.Errorf("%w: unknown payment method %q", ErrValidation, *req.Method)
			}
			e.Method = *req.Method
		}
		if req.PaidBy != nil {
			if *req.PaidBy == "" {
				e.PaidBy = nil
			} else {
				payer := *req.PaidBy
				e.PaidBy = &payer
			}
		}
		if req.ExpenseDate != nil {
			e.ExpenseDate = req.ExpenseDate
		}
		if req.ReceiptURL != nil {
			e.ReceiptURL = *req.ReceiptURL
		}
		if req.Notes != nil {
			e.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", id, err)
	}

	s.audit.record(ctx, "expense.update", "expense", id, req)
	return e, nil
}

// Delete hard-deletes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	e, err := s.expenses.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	s.audit.record(ctx, "expense.delete", "expense", id, map[string]any{
		"event_id": e.EventID,
		"amount":   e.Amount,
	})
	return nil
}

// ListForEvent returns an event's expenses.
func (s *ExpenseService) ListForEvent(ctx context.Context, eventID string) ([]model.ExpenseRecord, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.expenses.ListByEvent(ctx, eventID)
}

// Summary totals an event's expenses.
func (s *ExpenseService) Summary(ctx context.Context, eventID string) (*model.ExpenseSummary, error) {
	expenses, err := s.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	summary := expenseSummary(eventID, expenses)
	return &summary, nil
}

// Breakdown returns per-category totals, largest first.
func (s *ExpenseService) Breakdown(ctx context.Context, eventID string) ([]model.CategoryBreakdown, error) {
	expenses, err := s.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return categoryBreakdown(expenses), nil
}

func expenseSummary(eventID string, expenses []model.ExpenseRecord) model.ExpenseSummary {
	summary := model.ExpenseSummary{
		EventID:    eventID,
		Count:      len(expenses),
		ByCategory: make(map[model.ExpenseCategory]decimal.Decimal),
	}
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		switch e.Status {
		case model.ExpensePaid:
			summary.Paid = summary.Paid.Add(e.Amount)
		case model.ExpensePending:
			summary.Pending = summary.Pending.Add(e.Amount)
		case model.ExpenseReimbursed:
			summary.Reimbursed = summary.Reimbursed.Add(e.Amount)
		}
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)
	}
	return summary
}

func categoryBreakdown(expenses []model.ExpenseRecord) []model.CategoryBreakdown {
	rows := make(map[model.ExpenseCategory]*model.CategoryBreakdown)
	for _, e := range expenses {
		row, ok := rows[e.Category]
		if !ok {
			row = &model.CategoryBreakdown{Category: e.Category}
			rows[e.Category] = row
		}
		row.Count++
		row.Total = row.Total.Add(e.Amount)
		switch e.Status {
		case model.ExpensePaid:
			row.Paid = row.Paid.Add(e.Amount)
		case model.ExpensePending:
			row.Pending = row.Pending.Add(e.Amount)
		}
	}

	out := make([]model.CategoryBreakdown, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
