package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/shopspring/decimal"
)

func seedEvent(t *testing.T, db *DB) *model.Event {
	t.Helper()
	cost := decimal.NewFromInt(20)
	e, err := NewEventRepository(db).Create(context.Background(), model.CreateEventRequest{
		Name: "Gig", Date: time.Now(), Cost: &cost, Status: model.EventGatheringInterest,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestApplyUnknownEvent(t *testing.T) {
	parts := NewParticipationRepository(New())
	_, err := parts.Apply(context.Background(), "missing", "u1", model.ConfirmAttendance)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFailedTransitionLeavesRecord(t *testing.T) {
	db := New()
	e := seedEvent(t, db)
	parts := NewParticipationRepository(db)
	ctx := context.Background()

	if _, err := parts.Apply(ctx, e.ID, "u1", model.ToggleInterest); err != nil {
		t.Fatal(err)
	}
	if _, err := parts.Apply(ctx, e.ID, "u1", model.RemoveAttendee); !errors.Is(err, model.ErrNotConfirmed) {
		t.Fatalf("err = %v", err)
	}
	p, _ := parts.Find(ctx, e.ID, "u1")
	if !p.Present || !p.Record.Interested {
		t.Errorf("record changed by failed transition: %+v", p)
	}
}

func TestBulkCreateSkipsExistingPayments(t *testing.T) {
	db := New()
	e := seedEvent(t, db)
	parts := NewParticipationRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := parts.Apply(ctx, e.ID, u, model.ConfirmAttendance); err != nil {
			t.Fatal(err)
		}
	}
	// u4 is only interested and must be skipped.
	if _, err := parts.Apply(ctx, e.ID, "u4", model.ToggleInterest); err != nil {
		t.Fatal(err)
	}
	if err := payments.Create(ctx, &model.PaymentRecord{EventID: e.ID, UserID: "u2", Amount: decimal.NewFromInt(20), Status: model.PaymentPaid}, false); err != nil {
		t.Fatal(err)
	}

	tmpl := model.PaymentRecord{Amount: decimal.NewFromInt(20), Status: model.PaymentPending}
	created, err := payments.BulkCreate(ctx, e.ID, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 || created[0].UserID != "u1" || created[1].UserID != "u3" {
		t.Fatalf("created = %+v, want u1 and u3 in confirmation order", created)
	}

	again, err := payments.BulkCreate(ctx, e.ID, tmpl)
	if err != nil || len(again) != 0 {
		t.Fatalf("second run: %d created, err %v", len(again), err)
	}
}

func TestStrictCreateRejectsDuplicate(t *testing.T) {
	db := New()
	e := seedEvent(t, db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	p := model.PaymentRecord{EventID: e.ID, UserID: "u1", Amount: decimal.NewFromInt(5)}
	first := p
	if err := payments.Create(ctx, &first, true); err != nil {
		t.Fatal(err)
	}
	second := p
	if err := payments.Create(ctx, &second, true); !errors.Is(err, repository.ErrDuplicatePayment) {
		t.Fatalf("err = %v, want ErrDuplicatePayment", err)
	}
}

func TestConfirmWithPaymentOnlyOnce(t *testing.T) {
	db := New()
	e := seedEvent(t, db)
	parts := NewParticipationRepository(db)
	ctx := context.Background()

	tmpl := &model.PaymentRecord{Amount: decimal.NewFromInt(20), Status: model.PaymentPending}
	_, first, err := parts.ConfirmWithPayment(ctx, e.ID, "u1", tmpl)
	if err != nil || first == nil {
		t.Fatalf("first add: payment %v, err %v", first, err)
	}
	_, second, err := parts.ConfirmWithPayment(ctx, e.ID, "u1", tmpl)
	if err != nil || second != nil {
		t.Fatalf("second add: payment %v, err %v", second, err)
	}
}

func TestStoredRecordsAreCopies(t *testing.T) {
	db := New()
	e := seedEvent(t, db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d := date
	p := &model.PaymentRecord{EventID: e.ID, UserID: "u1", Amount: decimal.NewFromInt(5), PaymentDate: &d}
	if err := payments.Create(ctx, p, false); err != nil {
		t.Fatal(err)
	}
	*p.PaymentDate = date.AddDate(1, 0, 0)

	got, err := payments.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.PaymentDate.Equal(date) {
		t.Errorf("stored date changed through caller pointer: %s", got.PaymentDate)
	}
}
