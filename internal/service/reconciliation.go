package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
)

// ReconciliationService joins the payment and expense ledgers into
// financial summaries. It only reads, so a summary may reflect a mutation
// that committed halfway through.
type ReconciliationService struct {
	events   EventStore
	payments *PaymentService
	expenses *ExpenseService
	log      *slog.Logger
}

// NewReconciliationService constructs a ReconciliationService.
func NewReconciliationService(events EventStore, payments *PaymentService, expenses *ExpenseService, log *slog.Logger) *ReconciliationService {
	return &ReconciliationService{events: events, payments: payments, expenses: expenses, log: log}
}

// EventSummary returns the financial summary of one event.
func (s *ReconciliationService) EventSummary(ctx context.Context, eventID string) (*model.EventFinancialSummary, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	stats, err := s.payments.Stats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.Summary(ctx, eventID)
	if err != nil {
		return nil, err
	}

	summary := eventSummary(event, stats, expenses)
	return &summary, nil
}

func eventSummary(event *model.Event, stats *model.PaymentStats, expenses *model.ExpenseSummary) model.EventFinancialSummary {
	return model.EventFinancialSummary{
		EventID:        event.ID,
		EventName:      event.Name,
		EventDate:      event.Date,
		Expected:       stats.ExpectedTotal,
		Collected:      stats.TotalPaid,
		Outstanding:    stats.Outstanding,
		CollectionRate: model.CollectionRate(stats.TotalPaid, stats.ExpectedTotal),
		ExpenseTotal:   expenses.Total,
		ExpensePending: expenses.Pending,
		ExpensePaid:    expenses.Paid,
		Net:            stats.TotalPaid.Sub(expenses.Total),
	}
}

// Portfolio sums the summaries of eventIDs, or of every non-cancelled event
// when eventIDs is empty. Repeated ids count once. An event whose summary fails is logged, listed in
// Excluded and contributes nothing; ErrAggregateFetch is returned only when
// every event failed.
func (s *ReconciliationService) Portfolio(ctx context.Context, eventIDs []string) (*model.PortfolioSummary, error) {
	if len(eventIDs) == 0 {
		events, err := s.events.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("portfolio: list events: %w", err)
		}
		for _, e := range events {
			if e.Status != model.EventCancelled {
				eventIDs = append(eventIDs, e.ID)
			}
		}
	}
	eventIDs = uniqueIDs(eventIDs)

	portfolio := &model.PortfolioSummary{
		Events:   []model.EventFinancialSummary{},
		Excluded: []model.ExcludedEvent{},
	}
	var errs []error
	for _, id := range eventIDs {
		summary, err := s.EventSummary(ctx, id)
		if err != nil {
			s.log.WarnContext(ctx, "event excluded from portfolio",
				slog.String("event_id", id),
				slog.Any("error", err),
			)
			portfolio.Excluded = append(portfolio.Excluded, model.ExcludedEvent{EventID: id, Reason: err.Error()})
			errs = append(errs, fmt.Errorf("event %s: %w", id, err))
			continue
		}
		portfolio.Add(*summary)
	}

	if len(eventIDs) > 0 && len(errs) == len(eventIDs) {
		return nil, fmt.Errorf("%w: %w", ErrAggregateFetch, errors.Join(errs...))
	}
	portfolio.Partial = len(errs) > 0
	return portfolio, nil
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
