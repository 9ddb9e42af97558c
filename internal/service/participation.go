package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
)

// ParticipationService runs the interest/attendance state machine.
//
// Participation and payments are deliberately decoupled: none of the
// commands here delete or modify payment records, so removing an attendee
// leaves their financial history in place.
type ParticipationService struct {
	events EventStore
	users  UserDirectory
	parts  ParticipationStore
	opts   Options
	audit  *activityLog
}

// NewParticipationService constructs a ParticipationService.
func NewParticipationService(st Stores, opts Options, audit *activityLog) *ParticipationService {
	return &ParticipationService{
		events: st.Events,
		users:  st.Users,
		parts:  st.Participations,
		opts:   opts,
		audit:  audit,
	}
}

// requireMember checks the ids and that the user exists. The event is
// checked by the store under its lock.
func (s *ParticipationService) requireMember(ctx context.Context, eventID, userID string) error {
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", ErrValidation)
	}
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *ParticipationService) apply(ctx context.Context, action, eventID, userID string, t model.Transition) (model.ParticipationView, error) {
	if err := s.requireMember(ctx, eventID, userID); err != nil {
		return model.ParticipationView{}, fmt.Errorf("%s event=%s user=%s: %w", action, eventID, userID, err)
	}

	p, err := s.parts.Apply(ctx, eventID, userID, t)
	if err != nil {
		if errors.Is(err, model.ErrNotConfirmed) {
			err = fmt.Errorf("%w: %w", repository.ErrNotFound, err)
		}
		return model.ParticipationView{}, fmt.Errorf("%s event=%s user=%s: %w", action, eventID, userID, err)
	}

	view := p.View()
	s.audit.record(ctx, "participation."+action, "event", eventID, map[string]any{
		"user_id": userID,
		"state":   view.State,
	})
	return view, nil
}

// ToggleInterest flips the user's interest flag.
func (s *ParticipationService) ToggleInterest(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	return s.apply(ctx, "toggle_interest", eventID, userID, model.ToggleInterest)
}

// ConfirmAttendance marks the user as a confirmed attendee.
func (s *ParticipationService) ConfirmAttendance(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	return s.apply(ctx, "confirm_attendance", eventID, userID, model.ConfirmAttendance)
}

// CancelAttendance clears the confirmed flag, leaving interest untouched.
func (s *ParticipationService) CancelAttendance(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	return s.apply(ctx, "cancel_attendance", eventID, userID, model.CancelAttendance)
}

// RemoveAttendee is the organizer removal. It fails with ErrNotFound when
// the user is not a confirmed attendee.
func (s *ParticipationService) RemoveAttendee(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	return s.apply(ctx, "remove_attendee", eventID, userID, model.RemoveAttendee)
}

// RemoveInterest drops the user's interest. Confirmed users stay confirmed.
func (s *ParticipationService) RemoveInterest(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	return s.apply(ctx, "remove_interest", eventID, userID, model.RemoveInterest)
}

// AddAttendee confirms a user on the organizer's behalf. A pending payment
// (or one at req.PaymentStatus) is created alongside when the request asks
// for one or PaymentOnManualAdd is set, unless the user already has a
// payment for the event.
func (s *ParticipationService) AddAttendee(ctx context.Context, eventID string, req model.AddAttendeeRequest) (*model.AddAttendeeResult, error) {
	fail := func(err error) (*model.AddAttendeeResult, error) {
		return nil, fmt.Errorf("add attendee event=%s user=%s: %w", eventID, req.UserID, err)
	}

	if err := s.requireMember(ctx, eventID, req.UserID); err != nil {
		return fail(err)
	}

	var payment *model.PaymentRecord
	if req.PaymentStatus != nil || s.opts.PaymentOnManualAdd {
		event, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return fail(err)
		}

		status := model.PaymentPending
		if req.PaymentStatus != nil {
			status = *req.PaymentStatus
		}
		amount := event.UnitCost()
		if req.Amount != nil {
			amount = *req.Amount
		}
		// Like bulk create, the configured default owes nothing on a free event.
		if req.PaymentStatus != nil || req.Amount != nil || !amount.IsZero() {
			payment, err = newPayment(ctx, amount, status, "")
			if err != nil {
				return fail(err)
			}
		}
	} else if req.Amount != nil {
		return fail(fmt.Errorf("%w: amount requires payment_status", ErrValidation))
	}

	p, created, err := s.parts.ConfirmWithPayment(ctx, eventID, req.UserID, payment)
	if err != nil {
		return fail(err)
	}

	result := &model.AddAttendeeResult{Participation: p.View(), Payment: created}
	details := map[string]any{"user_id": req.UserID}
	if created != nil {
		details["payment_id"] = created.ID
	}
	s.audit.record(ctx, "participation.add_attendee", "event", eventID, details)
	return result, nil
}

// GetParticipation returns the pair's participation, including absence.
func (s *ParticipationService) GetParticipation(ctx context.Context, eventID, userID string) (model.ParticipationView, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return model.ParticipationView{}, err
	}
	if userID == "" {
		return model.ParticipationView{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	p, err := s.parts.Find(ctx, eventID, userID)
	if err != nil {
		return model.ParticipationView{}, fmt.Errorf("get participation: %w", err)
	}
	return p.View(), nil
}

// GetInterestedUsers returns users whose interest flag is set.
func (s *ParticipationService) GetInterestedUsers(ctx context.Context, eventID string) ([]model.User, error) {
	return s.usersWhere(ctx, eventID, func(r model.ParticipationRecord) bool { return r.Interested })
}

// GetConfirmedAttendees returns the event's confirmed attendees.
func (s *ParticipationService) GetConfirmedAttendees(ctx context.Context, eventID string) ([]model.User, error) {
	return s.usersWhere(ctx, eventID, func(r model.ParticipationRecord) bool { return r.Confirmed })
}

// GetAvailableUsers returns every directory member who is not a confirmed
// attendee of the event.
func (s *ParticipationService) GetAvailableUsers(ctx context.Context, eventID string) ([]model.User, error) {
	records, err := s.records(ctx, eventID)
	if err != nil {
		return nil, err
	}
	confirmed := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Confirmed {
			confirmed[r.UserID] = true
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	available := make([]model.User, 0, len(users))
	for _, u := range users {
		if !confirmed[u.ID] {
			available = append(available, u)
		}
	}
	return available, nil
}

func (s *ParticipationService) records(ctx context.Context, eventID string) ([]model.ParticipationRecord, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	records, err := s.parts.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participations event=%s: %w", eventID, err)
	}
	return records, nil
}

// usersWhere resolves the records matching keep against the directory. A
// user missing from the directory is still listed, by id only.
func (s *ParticipationService) usersWhere(ctx context.Context, eventID string, keep func(model.ParticipationRecord) bool) ([]model.User, error) {
	records, err := s.records(ctx, eventID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]model.User, 0, len(records))
	for _, r := range records {
		if !keep(r) {
			continue
		}
		u, ok := byID[r.UserID]
		if !ok {
			u = model.User{ID: r.UserID}
		}
		out = append(out, u)
	}
	return out, nil
}
