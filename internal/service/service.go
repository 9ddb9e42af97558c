// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage layer.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
)

var (
	// ErrValidation marks a missing or malformed field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState marks a command the ledger cannot accept in its
	// current state, such as a negative payment amount.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict marks a duplicate directory email, or a second payment for
	// the same attendee when strict payments are enabled.
	ErrConflict = errors.New("conflict")
	// ErrAggregateFetch is returned when every event of a portfolio failed.
	ErrAggregateFetch = errors.New("no event in the portfolio could be summarised")
)

// EventStore is the canonical event directory.
type EventStore interface {
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, fn func(*model.Event) error) (*model.Event, error)
}

// UserDirectory is the member directory. The ledgers only read from it.
type UserDirectory interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// ParticipationStore applies participation transitions atomically.
type ParticipationStore interface {
	Find(ctx context.Context, eventID, userID string) (model.Participation, error)
	Apply(ctx context.Context, eventID, userID string, t model.Transition) (model.Participation, error)
	ConfirmWithPayment(ctx context.Context, eventID, userID string, payment *model.PaymentRecord) (model.Participation, *model.PaymentRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.ParticipationRecord, error)
}

// PaymentStore is the attendee payment ledger.
type PaymentStore interface {
	Create(ctx context.Context, p *model.PaymentRecord, unique bool) error
	GetByID(ctx context.Context, id string) (*model.PaymentRecord, error)
	Update(ctx context.Context, id string, fn func(*model.PaymentRecord) error) (*model.PaymentRecord, error)
	Delete(ctx context.Context, id string) (*model.PaymentRecord, error)
	List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentRecord, error)
	BulkCreate(ctx context.Context, eventID string, tmpl model.PaymentRecord) ([]model.PaymentRecord, error)
}

// ExpenseStore is the event expense ledger.
type ExpenseStore interface {
	Create(ctx context.Context, e *model.ExpenseRecord) error
	GetByID(ctx context.Context, id string) (*model.ExpenseRecord, error)
	Update(ctx context.Context, id string, fn func(*model.ExpenseRecord) error) (*model.ExpenseRecord, error)
	Delete(ctx context.Context, id string) (*model.ExpenseRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.ExpenseRecord, error)
}

// CarpoolStore holds lift offers and requests.
type CarpoolStore interface {
	CreateOffer(ctx context.Context, o *model.CarpoolOffer) error
	ListOffers(ctx context.Context, eventID string) ([]model.CarpoolOffer, error)
	DeleteOffer(ctx context.Context, id string) (*model.CarpoolOffer, error)
	UpsertRequest(ctx context.Context, q *model.CarpoolRequest) error
	ListRequests(ctx context.Context, eventID string) ([]model.CarpoolRequest, error)
	DeleteRequest(ctx context.Context, id string) (*model.CarpoolRequest, error)
}

// ActivityStore is the append-only audit log.
type ActivityStore interface {
	Record(ctx context.Context, a *model.Activity) error
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

// Stores bundles one backend's implementation of every store.
type Stores struct {
	Events         EventStore
	Users          UserDirectory
	Participations ParticipationStore
	Payments       PaymentStore
	Expenses       ExpenseStore
	Carpool        CarpoolStore
	Activity       ActivityStore
}

// Options toggles the configurable business rules.
type Options struct {
	// PaymentOnManualAdd creates a pending payment for every manual add.
	PaymentOnManualAdd bool
	// StrictPayments turns a duplicate payment into ErrConflict.
	StrictPayments bool
}

// Services is the full set of services wired over one Stores bundle.
type Services struct {
	Events         *EventService
	Participation  *ParticipationService
	Payments       *PaymentService
	Expenses       *ExpenseService
	Reconciliation *ReconciliationService
	Carpool        *CarpoolService
	Activity       *ActivityService
}

// New wires every service over st.
func New(st Stores, opts Options, log *slog.Logger) *Services {
	audit := &activityLog{store: st.Activity, log: log}

	payments := NewPaymentService(st, opts, audit, log)
	expenses := NewExpenseService(st, audit)
	return &Services{
		Events:         NewEventService(st, audit),
		Participation:  NewParticipationService(st, opts, audit),
		Payments:       payments,
		Expenses:       expenses,
		Reconciliation: NewReconciliationService(st.Events, payments, expenses, log),
		Carpool:        NewCarpoolService(st, audit),
		Activity:       &ActivityService{store: st.Activity},
	}
}
