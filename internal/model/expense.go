package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups event-level spending.
type ExpenseCategory string

const (
	CategoryFood      ExpenseCategory = "food"
	CategoryTravel    ExpenseCategory = "travel"
	CategoryAdmin     ExpenseCategory = "admin"
	CategoryEquipment ExpenseCategory = "equipment"
	CategoryVenue     ExpenseCategory = "venue"
	CategoryOther     ExpenseCategory = "other"
)

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryAdmin, CategoryEquipment, CategoryVenue, CategoryOther:
		return true
	}
	return false
}

// ExpenseStatus is a free-standing label; any status may follow any other.
type ExpenseStatus string

const (
	ExpensePending    ExpenseStatus = "pending"
	ExpensePaid       ExpenseStatus = "paid"
	ExpenseReimbursed ExpenseStatus = "reimbursed"
)

// Valid reports whether s is a known expense status.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpensePaid, ExpenseReimbursed:
		return true
	}
	return false
}

// ExpenseRecord is one event-level expenditure.
type ExpenseRecord struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      ExpenseStatus   `json:"payment_status"`
	Method      PaymentMethod   `json:"payment_method,omitempty"`
	PaidBy      *string         `json:"paid_by"`
	ExpenseDate *time.Time      `json:"expense_date"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseRequest is the payload for adding an expense.
type ExpenseRequest struct {
	EventID     string           `json:"event_id"`
	Category    ExpenseCategory  `json:"category"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      ExpenseStatus    `json:"payment_status"`
	Method      PaymentMethod    `json:"payment_method"`
	PaidBy      *string          `json:"paid_by"`
	ExpenseDate *time.Time       `json:"expense_date"`
	ReceiptURL  string           `json:"receipt_url"`
	Notes       string           `json:"notes"`
}

// UpdateExpenseRequest patches an expense. Nil fields are left untouched.
type UpdateExpenseRequest struct {
	Category    *ExpenseCategory `json:"category"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      *ExpenseStatus   `json:"payment_status"`
	Method      *PaymentMethod   `json:"payment_method"`
	PaidBy      *string          `json:"paid_by"`
	ExpenseDate *time.Time       `json:"expense_date"`
	ReceiptURL  *string          `json:"receipt_url"`
	Notes       *string          `json:"notes"`
}

// ExpenseSummary totals an event's expenses. ByCategory omits categories
// without expenses.
type ExpenseSummary struct {
	EventID    string                              `json:"event_id"`
	Total      decimal.Decimal                     `json:"total"`
	Paid       decimal.Decimal                     `json:"paid"`
	Pending    decimal.Decimal                     `json:"pending"`
	Reimbursed decimal.Decimal                     `json:"reimbursed"`
	Count      int                                 `json:"count"`
	ByCategory map[ExpenseCategory]decimal.Decimal `json:"by_category"`
}

// CategoryBreakdown is one row of the per-category expense report.
type CategoryBreakdown struct {
	Category ExpenseCategory `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Pending  decimal.Decimal `json:"pending"`
}
