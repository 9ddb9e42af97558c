package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
)

// EventService manages the event and member directories.
type EventService struct {
	events EventStore
	users  UserDirectory
	audit  *activityLog
}

// NewEventService constructs an EventService.
func NewEventService(st Stores, audit *activityLog) *EventService {
	return &EventService{events: st.Events, users: st.Users, audit: audit}
}

// CreateEvent validates the request and delegates to the store.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", ErrValidation)
	}
	if req.Status == "" {
		req.Status = model.EventGatheringInterest
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown event status %q", ErrValidation, req.Status)
	}
	if req.Cost != nil && req.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrValidation)
	}
	if req.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}
	if req.Capacity > 100_000 {
		return nil, fmt.Errorf("%w: capacity cannot exceed 100,000", ErrValidation)
	}

	event, err := s.events.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.audit.record(ctx, "event.create", "event", event.ID, map[string]any{"name": event.Name})
	return event, nil
}

// ListEvents returns all events.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrValidation)
	}
	return s.events.GetByID(ctx, id)
}

// UpdateEvent patches an event. Status changes are unconstrained.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.events.Update(ctx, id, func(e *model.Event) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: event name cannot be empty", ErrValidation)
			}
			e.Name = name
		}
		if req.Date != nil {
			e.Date = *req.Date
		}
		if req.Cost != nil {
			if req.Cost.IsNegative() {
				return fmt.Errorf("%w: cost cannot be negative", ErrValidation)
			}
			cost := *req.Cost
			e.Cost = &cost
		}
		if req.Status != nil {
			if !req.Status.Valid() {
				return fmt.Errorf("%w: unknown event status %q", ErrValidation, *req.Status)
			}
			e.Status = *req.Status
		}
		if req.Capacity != nil {
			if *req.Capacity < 0 {
				return fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
			}
			e.Capacity = *req.Capacity
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	s.audit.record(ctx, "event.update", "event", id, req)
	return event, nil
}

// CreateUser adds a member to the directory.
func (s *EventService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: email is not a valid email address", ErrValidation)
	}

	user, err := s.users.Create(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			err = fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.audit.record(ctx, "user.create", "user", user.ID, nil)
	return user, nil
}

// ListUsers returns the member directory.
func (s *EventService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
