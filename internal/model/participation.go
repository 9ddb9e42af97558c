package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotConfirmed is returned by transitions that require a confirmed attendee.
var ErrNotConfirmed = errors.New("user is not a confirmed attendee")

// ParticipationState is the derived relationship of a user to an event.
type ParticipationState string

const (
	StateNone       ParticipationState = "none"
	StateInterested ParticipationState = "interested"
	StateConfirmed  ParticipationState = "confirmed"
)

// ParticipationRecord holds the two independent flags for one (event, user)
// pair. A user may be confirmed without ever having been interested.
type ParticipationRecord struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Interested bool      `json:"interested"`
	Confirmed  bool      `json:"confirmed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Participation is an optional ParticipationRecord. Present is false when the
// user never engaged with the event (no stored record).
type Participation struct {
	Record  ParticipationRecord `json:"record"`
	Present bool                `json:"present"`
}

// State derives the participation state. Confirmation wins over interest.
func (p Participation) State() ParticipationState {
	switch {
	case !p.Present:
		return StateNone
	case p.Record.Confirmed:
		return StateConfirmed
	case p.Record.Interested:
		return StateInterested
	}
	return StateNone
}

// Transition computes the next participation value from the current one.
// Returning a value with Present=false deletes the stored record.
type Transition func(cur Participation) (Participation, error)

// ToggleInterest flips the interest flag. Withdrawing interest follows
// RemoveInterest, so a confirmed user stays confirmed.
func ToggleInterest(cur Participation) (Participation, error) {
	if cur.Present && cur.Record.Interested {
		return RemoveInterest(cur)
	}
	cur.Present = true
	cur.Record.Interested = true
	return cur, nil
}

// ConfirmAttendance sets confirmed regardless of prior interest. Confirming
// twice leaves the record unchanged.
func ConfirmAttendance(cur Participation) (Participation, error) {
	cur.Present = true
	cur.Record.Confirmed = true
	return cur, nil
}

// CancelAttendance clears the confirmed flag and keeps interest as it was.
// Cancelling an absent record is a no-op.
func CancelAttendance(cur Participation) (Participation, error) {
	if !cur.Present {
		return cur, nil
	}
	cur.Record.Confirmed = false
	return cur, nil
}

// RemoveAttendee is the organizer form of CancelAttendance and requires the
// user to be confirmed.
func RemoveAttendee(cur Participation) (Participation, error) {
	if !cur.Present || !cur.Record.Confirmed {
		return cur, ErrNotConfirmed
	}
	cur.Record.Confirmed = false
	return cur, nil
}

// RemoveInterest deletes the record unless the user is confirmed, in which
// case only the interest flag is cleared.
func RemoveInterest(cur Participation) (Participation, error) {
	if !cur.Present {
		return cur, nil
	}
	if cur.Record.Confirmed {
		cur.Record.Interested = false
		return cur, nil
	}
	return Participation{Record: cur.Record}, nil
}

// ParticipationView is the flattened response shape for one (event, user)
// pair, with the derived state spelled out.
type ParticipationView struct {
	EventID    string             `json:"event_id"`
	UserID     string             `json:"user_id"`
	State      ParticipationState `json:"state"`
	Present    bool               `json:"present"`
	Interested bool               `json:"interested"`
	Confirmed  bool               `json:"confirmed"`
}

// View flattens p for responses.
func (p Participation) View() ParticipationView {
	return ParticipationView{
		EventID:    p.Record.EventID,
		UserID:     p.Record.UserID,
		State:      p.State(),
		Present:    p.Present,
		Interested: p.Present && p.Record.Interested,
		Confirmed:  p.Present && p.Record.Confirmed,
	}
}

// ParticipantRequest names the member a participation command acts on.
type ParticipantRequest struct {
	UserID string `json:"user_id"`
}

// AddAttendeeRequest is the organizer payload for adding an attendee directly.
// PaymentStatus, when set, asks for a linked payment record.
type AddAttendeeRequest struct {
	UserID        string           `json:"user_id"`
	PaymentStatus *PaymentStatus   `json:"payment_status"`
	Amount        *decimal.Decimal `json:"amount"`
}

// AddAttendeeResult is the outcome of a manual add.
type AddAttendeeResult struct {
	Participation ParticipationView `json:"participation"`
	Payment       *PaymentRecord    `json:"payment,omitempty"`
}
