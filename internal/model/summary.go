package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CollectionRate returns collected as a percentage of expected, rounded to two
// places. It is zero whenever expected is zero.
func CollectionRate(collected, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return collected.Mul(hundred).DivRound(expected, 2)
}

// EventFinancialSummary joins payment stats and expense totals for one event.
type EventFinancialSummary struct {
	EventID        string          `json:"event_id"`
	EventName      string          `json:"event_name"`
	EventDate      time.Time       `json:"event_date"`
	Expected       decimal.Decimal `json:"expected"`
	Collected      decimal.Decimal `json:"collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	CollectionRate decimal.Decimal `json:"collection_rate"`
	ExpenseTotal   decimal.Decimal `json:"expense_total"`
	ExpensePending decimal.Decimal `json:"expense_pending"`
	ExpensePaid    decimal.Decimal `json:"expense_paid"`
	Net            decimal.Decimal `json:"net"`
}

// ExcludedEvent names an event left out of a portfolio and why.
type ExcludedEvent struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}

// PortfolioSummary is the organization-wide reduction of event summaries.
// Partial is set when at least one event could not be summarised.
type PortfolioSummary struct {
	EventCount     int                     `json:"event_count"`
	Expected       decimal.Decimal         `json:"total_expected"`
	Collected      decimal.Decimal         `json:"total_collected"`
	Outstanding    decimal.Decimal         `json:"total_outstanding"`
	CollectionRate decimal.Decimal         `json:"collection_rate"`
	ExpenseTotal   decimal.Decimal         `json:"expense_total"`
	ExpensePending decimal.Decimal         `json:"expense_pending"`
	ExpensePaid    decimal.Decimal         `json:"expense_paid"`
	Net            decimal.Decimal         `json:"net"`
	Events         []EventFinancialSummary `json:"events"`
	Excluded       []ExcludedEvent         `json:"excluded"`
	Partial        bool                    `json:"partial"`
}

// Add folds one event summary into the portfolio totals.
func (p *PortfolioSummary) Add(s EventFinancialSummary) {
	p.EventCount++
	p.Expected = p.Expected.Add(s.Expected)
	p.Collected = p.Collected.Add(s.Collected)
	p.Outstanding = p.Outstanding.Add(s.Outstanding)
	p.ExpenseTotal = p.ExpenseTotal.Add(s.ExpenseTotal)
	p.ExpensePending = p.ExpensePending.Add(s.ExpensePending)
	p.ExpensePaid = p.ExpensePaid.Add(s.ExpensePaid)
	p.Net = p.Net.Add(s.Net)
	p.CollectionRate = CollectionRate(p.Collected, p.Expected)
	p.Events = append(p.Events, s)
}
