package model

import "time"

// CarpoolOffer is a driver offering seats to an event.
type CarpoolOffer struct {
	ID                string     `json:"id"`
	EventID           string     `json:"event_id"`
	UserID            string     `json:"user_id"`
	DepartureLocation string     `json:"departure_location"`
	AvailableSeats    int        `json:"available_seats"`
	DepartureTime     *time.Time `json:"departure_time"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CarpoolRequest is a member asking for a lift. One per user per event.
type CarpoolRequest struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	PickupLocation string    `json:"pickup_location"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CarpoolOfferRequest is the payload for offering a lift.
type CarpoolOfferRequest struct {
	UserID            string     `json:"user_id"`
	DepartureLocation string     `json:"departure_location"`
	AvailableSeats    *int       `json:"available_seats"`
	DepartureTime     *time.Time `json:"departure_time"`
	Notes             string     `json:"notes"`
}

// CarpoolRequestRequest is the payload for asking for a lift.
type CarpoolRequestRequest struct {
	UserID         string `json:"user_id"`
	PickupLocation string `json:"pickup_location"`
	Notes          string `json:"notes"`
}
