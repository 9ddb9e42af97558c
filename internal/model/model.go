// Package model defines the core domain types for the club event ledger.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the organizer-driven planning stage of an event. Any status
// may follow any other.
type EventStatus string

const (
	EventGatheringInterest EventStatus = "gathering_interest"
	EventPrePlanning       EventStatus = "pre_planning"
	EventFinalPlanning     EventStatus = "final_planning"
	EventTripBooked        EventStatus = "trip_booked"
	EventCancelled         EventStatus = "cancelled"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventGatheringInterest, EventPrePlanning, EventFinalPlanning, EventTripBooked, EventCancelled:
		return true
	}
	return false
}

// Event is the canonical record of a club event.
type Event struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Date     time.Time        `json:"date"`
	Cost     *decimal.Decimal `json:"cost"`
	Status   EventStatus      `json:"status"`
	Capacity int              `json:"capacity"`

	InterestedCount int `json:"interested_count"`
	ConfirmedCount  int `json:"confirmed_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitCost returns the per-attendee cost, treating an unset cost as zero.
func (e *Event) UnitCost() decimal.Decimal {
	if e.Cost == nil {
		return decimal.Zero
	}
	return *e.Cost
}

// IsFree reports whether the event expects no payment from attendees.
func (e *Event) IsFree() bool {
	return e.UnitCost().IsZero()
}

// User is a read-only entry of the member directory.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Name     string           `json:"name"`
	Date     time.Time        `json:"date"`
	Cost     *decimal.Decimal `json:"cost"`
	Status   EventStatus      `json:"status"`
	Capacity int              `json:"capacity"`
}

// UpdateEventRequest patches an event. Nil fields are left untouched.
type UpdateEventRequest struct {
	Name     *string          `json:"name"`
	Date     *time.Time       `json:"date"`
	Cost     *decimal.Decimal `json:"cost"`
	Status   *EventStatus     `json:"status"`
	Capacity *int             `json:"capacity"`
}

// CreateUserRequest is the payload for adding a directory entry.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
