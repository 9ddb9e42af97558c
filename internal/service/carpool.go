package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
)

// CarpoolService coordinates lifts to events.
type CarpoolService struct {
	events  EventStore
	users   UserDirectory
	carpool CarpoolStore
	audit   *activityLog
}

// NewCarpoolService constructs a CarpoolService.
func NewCarpoolService(st Stores, audit *activityLog) *CarpoolService {
	return &CarpoolService{events: st.Events, users: st.Users, carpool: st.Carpool, audit: audit}
}

func (s *CarpoolService) requireMember(ctx context.Context, eventID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	_, err := s.users.GetByID(ctx, userID)
	return err
}

// OfferLift posts a driver's offer.
func (s *CarpoolService) OfferLift(ctx context.Context, eventID string, req model.CarpoolOfferRequest) (*model.CarpoolOffer, error) {
	fail := func(err error) (*model.CarpoolOffer, error) {
		return nil, fmt.Errorf("offer lift event=%s user=%s: %w", eventID, req.UserID, err)
	}

	req.DepartureLocation = strings.TrimSpace(req.DepartureLocation)
	if req.DepartureLocation == "" {
		return fail(fmt.Errorf("%w: departure_location is required", ErrValidation))
	}
	if req.AvailableSeats == nil || *req.AvailableSeats <= 0 {
		return fail(fmt.Errorf("%w: available_seats must be a positive integer", ErrValidation))
	}
	if err := s.requireMember(ctx, eventID, req.UserID); err != nil {
		return fail(err)
	}

	o := &model.CarpoolOffer{
		EventID:           eventID,
		UserID:            req.UserID,
		DepartureLocation: req.DepartureLocation,
		AvailableSeats:    *req.AvailableSeats,
		DepartureTime:     req.DepartureTime,
		Notes:             req.Notes,
	}
	if err := s.carpool.CreateOffer(ctx, o); err != nil {
		return fail(err)
	}
	s.audit.record(ctx, "carpool.offer", "carpool_offer", o.ID, map[string]any{"event_id": eventID, "seats": o.AvailableSeats})
	return o, nil
}

// RequestLift stores the user's request, replacing any earlier one.
func (s *CarpoolService) RequestLift(ctx context.Context, eventID string, req model.CarpoolRequestRequest) (*model.CarpoolRequest, error) {
	fail := func(err error) (*model.CarpoolRequest, error) {
		return nil, fmt.Errorf("request lift event=%s user=%s: %w", eventID, req.UserID, err)
	}

	req.PickupLocation = strings.TrimSpace(req.PickupLocation)
	if req.PickupLocation == "" {
		return fail(fmt.Errorf("%w: pickup_location is required", ErrValidation))
	}
	if err := s.requireMember(ctx, eventID, req.UserID); err != nil {
		return fail(err)
	}

	q := &model.CarpoolRequest{
		EventID:        eventID,
		UserID:         req.UserID,
		PickupLocation: req.PickupLocation,
		Notes:          req.Notes,
	}
	if err := s.carpool.UpsertRequest(ctx, q); err != nil {
		return fail(err)
	}
	s.audit.record(ctx, "carpool.request", "carpool_request", q.ID, map[string]any{"event_id": eventID})
	return q, nil
}

// Offers lists an event's lift offers.
func (s *CarpoolService) Offers(ctx context.Context, eventID string) ([]model.CarpoolOffer, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.carpool.ListOffers(ctx, eventID)
}

// Requests lists an event's lift requests.
func (s *CarpoolService) Requests(ctx context.Context, eventID string) ([]model.CarpoolRequest, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.carpool.ListRequests(ctx, eventID)
}

// WithdrawOffer deletes an offer.
func (s *CarpoolService) WithdrawOffer(ctx context.Context, id string) error {
	o, err := s.carpool.DeleteOffer(ctx, id)
	if err != nil {
		return fmt.Errorf("withdraw carpool offer %s: %w", id, err)
	}
	s.audit.record(ctx, "carpool.withdraw_offer", "carpool_offer", id, map[string]any{"event_id": o.EventID})
	return nil
}

// WithdrawRequest deletes a lift request.
func (s *CarpoolService) WithdrawRequest(ctx context.Context, id string) error {
	q, err := s.carpool.DeleteRequest(ctx, id)
	if err != nil {
		return fmt.Errorf("withdraw carpool request %s: %w", id, err)
	}
	s.audit.record(ctx, "carpool.withdraw_request", "carpool_request", id, map[string]any{"event_id": q.EventID})
	return nil
}
