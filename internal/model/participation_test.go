package model

import (
	"errors"
	"testing"
)

func present(interested, confirmed bool) Participation {
	return Participation{
		Record:  ParticipationRecord{EventID: "e1", UserID: "u1", Interested: interested, Confirmed: confirmed},
		Present: true,
	}
}

var absent = Participation{Record: ParticipationRecord{EventID: "e1", UserID: "u1"}}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		t       Transition
		cur     Participation
		want    ParticipationState
		present bool
		wantErr error
	}{
		{"toggle from none", ToggleInterest, absent, StateInterested, true, nil},
		{"toggle off interest", ToggleInterest, present(true, false), StateNone, false, nil},
		{"toggle off keeps confirmed", ToggleInterest, present(true, true), StateConfirmed, true, nil},
		{"toggle on for confirmed", ToggleInterest, present(false, true), StateConfirmed, true, nil},
		{"confirm from none", ConfirmAttendance, absent, StateConfirmed, true, nil},
		{"confirm twice", ConfirmAttendance, present(false, true), StateConfirmed, true, nil},
		{"cancel keeps interest", CancelAttendance, present(true, true), StateInterested, true, nil},
		{"cancel without interest", CancelAttendance, present(false, true), StateNone, true, nil},
		{"cancel absent is no-op", CancelAttendance, absent, StateNone, false, nil},
		{"remove attendee", RemoveAttendee, present(true, true), StateInterested, true, nil},
		{"remove attendee not confirmed", RemoveAttendee, present(true, false), "", false, ErrNotConfirmed},
		{"remove attendee absent", RemoveAttendee, absent, "", false, ErrNotConfirmed},
		{"remove interest deletes", RemoveInterest, present(true, false), StateNone, false, nil},
		{"remove interest keeps confirmed", RemoveInterest, present(true, true), StateConfirmed, true, nil},
		{"remove interest absent", RemoveInterest, absent, StateNone, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.t(tt.cur)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.State() != tt.want {
				t.Errorf("state = %s, want %s", got.State(), tt.want)
			}
			if got.Present != tt.present {
				t.Errorf("present = %v, want %v", got.Present, tt.present)
			}
		})
	}
}

func TestConfirmThenCancelPreservesInterest(t *testing.T) {
	for _, start := range []Participation{absent, present(true, false), present(false, false)} {
		before := start.Present && start.Record.Interested

		p, err := ConfirmAttendance(start)
		if err != nil {
			t.Fatal(err)
		}
		p, err = CancelAttendance(p)
		if err != nil {
			t.Fatal(err)
		}
		if p.Record.Interested != before {
			t.Errorf("interested = %v after confirm+cancel, want %v", p.Record.Interested, before)
		}
		if p.Record.Confirmed {
			t.Error("still confirmed after cancel")
		}
	}
}

func TestViewOfAbsentRecord(t *testing.T) {
	v := absent.View()
	if v.Present || v.Interested || v.Confirmed || v.State != StateNone {
		t.Errorf("unexpected view %+v", v)
	}
	if v.EventID != "e1" || v.UserID != "u1" {
		t.Errorf("view lost keys: %+v", v)
	}
}
