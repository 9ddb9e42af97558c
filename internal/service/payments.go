package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// PaymentService manages the attendee payment ledger.
//
// Nothing here requires the payer to be a confirmed attendee, and by
// default the same attendee may hold several records. StrictPayments turns
// the second case into ErrConflict.
type PaymentService struct {
	events   EventStore
	users    UserDirectory
	parts    ParticipationStore
	payments PaymentStore
	opts     Options
	audit    *activityLog
	log      *slog.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(st Stores, opts Options, audit *activityLog, log *slog.Logger) *PaymentService {
	return &PaymentService{
		events:   st.Events,
		users:    st.Users,
		parts:    st.Participations,
		payments: st.Payments,
		opts:     opts,
		audit:    audit,
		log:      log,
	}
}

func validStatus(status model.PaymentStatus) (model.PaymentStatus, error) {
	if status == "" {
		return model.PaymentPending, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown payment status %q (use pending, paid or refunded)", ErrValidation, status)
	}
	return status, nil
}

func validAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: payment amount cannot be negative", ErrInvalidState)
	}
	return nil
}

// newPayment builds an unsaved payment record, stamping the acting member
// and, for paid records, today's date.
func newPayment(ctx context.Context, amount decimal.Decimal, status model.PaymentStatus, method model.PaymentMethod) (*model.PaymentRecord, error) {
	status, err := validStatus(status)
	if err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	p := &model.PaymentRecord{
		Amount:    amount,
		Status:    status,
		Method:    method,
		CreatedBy: ActorFrom(ctx),
	}
	if status == model.PaymentPaid {
		today := time.Now().UTC()
		p.PaymentDate = &today
	}
	return p, nil
}

// Record stores one payment.
func (s *PaymentService) Record(ctx context.Context, req model.RecordPaymentRequest) (*model.PaymentRecord, error) {
	fail := func(err error) (*model.PaymentRecord, error) {
		return nil, fmt.Errorf("record payment event=%s user=%s: %w", req.EventID, req.UserID, err)
	}

	if req.EventID == "" {
		return fail(fmt.Errorf("%w: event id is required", ErrValidation))
	}
	if req.UserID == "" {
		return fail(fmt.Errorf("%w: user_id is required", ErrValidation))
	}
	if req.Amount == nil {
		return fail(fmt.Errorf("%w: amount is required", ErrValidation))
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return fail(err)
	}

	p, err := newPayment(ctx, *req.Amount, req.Status, req.Method)
	if err != nil {
		return fail(err)
	}
	p.EventID = req.EventID
	p.UserID = req.UserID
	p.Notes = req.Notes
	if req.PaymentDate != nil {
		p.PaymentDate = req.PaymentDate
	}

	if err := s.payments.Create(ctx, p, s.opts.StrictPayments); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			err = fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return fail(err)
	}

	s.audit.record(ctx, "payment.record", "payment", p.ID, map[string]any{
		"event_id": p.EventID,
		"user_id":  p.UserID,
		"amount":   p.Amount,
		"status":   p.Status,
	})
	return p, nil
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*model.PaymentRecord, error) {
	return s.payments.GetByID(ctx, id)
}

// Update patches amount, status, method, date or notes.
func (s *PaymentService) Update(ctx context.Context, id string, req model.UpdatePaymentRequest) (*model.PaymentRecord, error) {
	p, err := s.payments.Update(ctx, id, func(p *model.PaymentRecord) error {
		if req.Amount != nil {
			if err := validAmount(*req.Amount); err != nil {
				return err
			}
			p.Amount = *req.Amount
		}
		if req.Status != nil {
			status, err := validStatus(*req.Status)
			if err != nil {
				return err
			}
			if status == model.PaymentPaid && p.Status != model.PaymentPaid && p.PaymentDate == nil && req.PaymentDate == nil {
				today := time.Now().UTC()
				p.PaymentDate = &today
			}
			p.Status = status
		}
		if req.Method != nil {
			if !req.Method.Valid() {
				return fmt.Errorf("%w: unknown payment method %q", ErrValidation, *req.Method)
			}
			p.Method = *req.Method
		}
		if req.PaymentDate != nil {
			p.PaymentDate = req.PaymentDate
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update payment %s: %w", id, err)
	}

	s.audit.record(ctx, "payment.update", "payment", id, req)
	return p, nil
}

// Delete hard-deletes a payment.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	p, err := s.payments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	s.audit.record(ctx, "payment.delete", "payment", id, map[string]any{
		"event_id": p.EventID,
		"user_id":  p.UserID,
		"amount":   p.Amount,
	})
	return nil
}

// List returns payments matching f, newest first.
func (s *PaymentService) List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentRecord, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, f.Status)
	}
	return s.payments.List(ctx, f)
}

// ListForEvent returns every payment of an event, including those of users
// who are no longer attendees.
func (s *PaymentService) ListForEvent(ctx context.Context, eventID string) ([]model.PaymentRecord, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.payments.List(ctx, model.PaymentFilter{EventID: eventID})
}

// BulkCreate creates a payment for every confirmed attendee without one.
// The amount defaults to the event cost. Running it again creates nothing.
func (s *PaymentService) BulkCreate(ctx context.Context, eventID string, req model.BulkCreatePaymentsRequest) (*model.BulkCreateResult, error) {
	fail := func(err error) (*model.BulkCreateResult, error) {
		return nil, fmt.Errorf("bulk create payments event=%s: %w", eventID, err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return fail(err)
	}

	var amount decimal.Decimal
	switch {
	case req.Amount != nil:
		amount = *req.Amount
	case event.Cost != nil:
		amount = *event.Cost
	default:
		return fail(fmt.Errorf("%w: amount is required when the event has no cost", ErrValidation))
	}
	if req.Amount == nil && amount.IsZero() {
		// Free event: nothing is owed.
		return &model.BulkCreateResult{Payments: []model.PaymentRecord{}}, nil
	}

	tmpl, err := newPayment(ctx, amount, req.Status, "")
	if err != nil {
		return fail(err)
	}

	created, err := s.payments.BulkCreate(ctx, eventID, *tmpl)
	if err != nil {
		return fail(err)
	}
	if created == nil {
		created = []model.PaymentRecord{}
	}

	s.log.InfoContext(ctx, "bulk payments created",
		slog.String("event_id", eventID),
		slog.Int("created", len(created)),
		slog.String("amount", amount.String()),
	)
	if len(created) > 0 {
		s.audit.record(ctx, "payment.bulk_create", "event", eventID, map[string]any{
			"created": len(created),
			"amount":  amount,
			"status":  tmpl.Status,
		})
	}
	return &model.BulkCreateResult{Created: len(created), Payments: created}, nil
}

// Stats returns the event's payment view. The expected total is derived
// from the confirmed attendee count, not from the payment table.
func (s *PaymentService) Stats(ctx context.Context, eventID string) (*model.PaymentStats, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	records, err := s.parts.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("payment stats event=%s: list participations: %w", eventID, err)
	}
	payments, err := s.payments.List(ctx, model.PaymentFilter{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("payment stats event=%s: list payments: %w", eventID, err)
	}

	stats := paymentStats(event, records, payments)
	return &stats, nil
}

func paymentStats(event *model.Event, records []model.ParticipationRecord, payments []model.PaymentRecord) model.PaymentStats {
	stats := model.PaymentStats{
		EventID:       event.ID,
		Cost:          event.UnitCost(),
		TotalPayments: len(payments),
	}
	for _, r := range records {
		if r.Confirmed {
			stats.ConfirmedAttendees++
		}
	}
	stats.ExpectedTotal = stats.Cost.Mul(decimal.NewFromInt(int64(stats.ConfirmedAttendees)))

	for _, p := range payments {
		switch p.Status {
		case model.PaymentPaid:
			stats.PaidCount++
			stats.TotalPaid = stats.TotalPaid.Add(p.Amount)
		case model.PaymentPending:
			stats.PendingCount++
			stats.TotalPending = stats.TotalPending.Add(p.Amount)
		case model.PaymentRefunded:
			stats.RefundedCount++
		}
	}
	stats.Outstanding = stats.ExpectedTotal.Sub(stats.TotalPaid)
	return stats
}
