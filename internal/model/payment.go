package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of an attendee payment. "pending" is the single
// spelling for "no payment yet".
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod records how money changed hands. The empty method means the
// record was generated before anyone paid.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodOther        PaymentMethod = "other"
)

// Valid reports whether m is a known payment method or unset.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", MethodCash, MethodBankTransfer, MethodCard, MethodOther:
		return true
	}
	return false
}

// PaymentRecord is one entry of the attendee payment ledger.
//
// UserID is expected to reference a confirmed attendee but nothing enforces
// it: organizers may record payments for anyone, and records outlive the
// attendee's removal so financial history is never lost.
type PaymentRecord struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"payment_status"`
	Method      PaymentMethod   `json:"payment_method,omitempty"`
	PaymentDate *time.Time      `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecordPaymentRequest is the payload for recording a single payment.
type RecordPaymentRequest struct {
	EventID     string           `json:"event_id"`
	UserID      string           `json:"user_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      PaymentStatus    `json:"payment_status"`
	Method      PaymentMethod    `json:"payment_method"`
	PaymentDate *time.Time       `json:"payment_date"`
	Notes       string           `json:"notes"`
}

// UpdatePaymentRequest patches a payment. Nil fields are left untouched.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Status      *PaymentStatus   `json:"payment_status"`
	Method      *PaymentMethod   `json:"payment_method"`
	PaymentDate *time.Time       `json:"payment_date"`
	Notes       *string          `json:"notes"`
}

// BulkCreatePaymentsRequest asks for one payment per confirmed attendee that
// has none yet. A nil Amount falls back to the event cost.
type BulkCreatePaymentsRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Status PaymentStatus    `json:"payment_status"`
}

// BulkCreateResult reports what a bulk generation created.
type BulkCreateResult struct {
	Created  int             `json:"created"`
	Payments []PaymentRecord `json:"payments"`
}

// PaymentFilter narrows a payment listing. Empty fields match everything.
type PaymentFilter struct {
	EventID string
	UserID  string
	Status  PaymentStatus
}

// Match reports whether p satisfies the filter.
func (f PaymentFilter) Match(p PaymentRecord) bool {
	if f.EventID != "" && p.EventID != f.EventID {
		return false
	}
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

// PaymentStats is the per-event payment view. ExpectedTotal comes from the
// confirmed attendee count, not from the payment table, and Outstanding is
// not clamped: a negative value means overpayment.
type PaymentStats struct {
	EventID            string          `json:"event_id"`
	Cost               decimal.Decimal `json:"cost"`
	ConfirmedAttendees int             `json:"confirmed_attendees"`
	ExpectedTotal      decimal.Decimal `json:"expected_total"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalPending       decimal.Decimal `json:"total_pending"`
	Outstanding        decimal.Decimal `json:"outstanding"`
	TotalPayments      int             `json:"total_payments"`
	PaidCount          int             `json:"paid_count"`
	PendingCount       int             `json:"pending_count"`
	RefundedCount      int             `json:"refunded_count"`
}
