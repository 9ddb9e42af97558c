package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/handler"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository/memory"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/service"
	"github.com/shopspring/decimal"
)

type api struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T, opts service.Options) *api {
	t.Helper()
	db := memory.New()
	st := service.Stores{
		Events:         memory.NewEventRepository(db),
		Users:          memory.NewUserRepository(db),
		Participations: memory.NewParticipationRepository(db),
		Payments:       memory.NewPaymentRepository(db),
		Expenses:       memory.NewExpenseRepository(db),
		Carpool:        memory.NewCarpoolRepository(db),
		Activity:       memory.NewActivityRepository(db),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.New(service.New(st, opts, log), log)
	return &api{t: t, router: handler.NewRouter(h, []string{"*"}, log)}
}

// do sends body (a string is sent verbatim, anything else as JSON) and
// returns the recorded response.
func (a *api) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			a.t.Fatal(err)
		}
		r = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *api) expect(rec *httptest.ResponseRecorder, status int, out any) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

func (a *api) user(name string) model.User {
	a.t.Helper()
	var u model.User
	a.expect(a.do(http.MethodPost, "/users", map[string]string{"name": name, "email": name + "@club.example"}), http.StatusCreated, &u)
	return u
}

func (a *api) event(name string, cost any) model.Event {
	a.t.Helper()
	body := map[string]any{"name": name, "date": "2026-11-14T09:00:00Z"}
	if cost != nil {
		body["cost"] = cost
	}
	var e model.Event
	a.expect(a.do(http.MethodPost, "/events", body), http.StatusCreated, &e)
	return e
}

func (a *api) confirm(eventID, userID string) {
	a.t.Helper()
	a.expect(a.do(http.MethodPost, "/events/"+eventID+"/attendance", map[string]string{"user_id": userID}), http.StatusOK, nil)
}

func TestHealthCheck(t *testing.T) {
	a := newAPI(t, service.Options{})
	var body map[string]string
	a.expect(a.do(http.MethodGet, "/health", nil), http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestPaymentCollectionFlow(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Lake District hike", 500)
	for _, name := range []string{"ana", "ben", "cai"} {
		a.confirm(e.ID, a.user(name).ID)
	}

	var bulk model.BulkCreateResult
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/payments/bulk", nil), http.StatusOK, &bulk)
	if bulk.Created != 3 {
		t.Fatalf("created = %d, want 3", bulk.Created)
	}
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/payments/bulk", nil), http.StatusOK, &bulk)
	if bulk.Created != 0 || bulk.Payments == nil {
		t.Fatalf("second bulk = %+v, want 0 created and an empty list", bulk)
	}

	var payments []model.PaymentRecord
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/payments", nil), http.StatusOK, &payments)
	if len(payments) != 3 {
		t.Fatalf("payments = %d, want 3", len(payments))
	}

	var paid model.PaymentRecord
	a.expect(a.do(http.MethodPatch, "/payments/"+payments[0].ID, map[string]string{"payment_status": "paid", "payment_method": "bank_transfer"}), http.StatusOK, &paid)
	if paid.Status != model.PaymentPaid || paid.PaymentDate == nil {
		t.Errorf("patched payment = %+v", paid)
	}

	var summary model.EventFinancialSummary
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/summary", nil), http.StatusOK, &summary)
	if !summary.Expected.Equal(decimal.NewFromInt(1500)) || !summary.Collected.Equal(decimal.NewFromInt(500)) {
		t.Errorf("summary = expected %s, collected %s", summary.Expected, summary.Collected)
	}
	if !summary.CollectionRate.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("collection_rate = %s, want 33.33", summary.CollectionRate)
	}

	var stats model.PaymentStats
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/payments/stats", nil), http.StatusOK, &stats)
	if stats.PaidCount != 1 || stats.PendingCount != 2 {
		t.Errorf("stats = %+v", stats)
	}

	var filtered []model.PaymentRecord
	a.expect(a.do(http.MethodGet, "/payments?status=pending&event_id="+e.ID, nil), http.StatusOK, &filtered)
	if len(filtered) != 2 {
		t.Errorf("pending payments = %d, want 2", len(filtered))
	}

	var portfolio model.PortfolioSummary
	a.expect(a.do(http.MethodGet, "/portfolio?event_id="+e.ID+",missing", nil), http.StatusOK, &portfolio)
	if portfolio.EventCount != 1 || !portfolio.Partial || len(portfolio.Excluded) != 1 {
		t.Errorf("portfolio = %+v", portfolio)
	}
}

func TestBulkCreateWithChunkedEmptyBody(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Gig", 40)
	a.confirm(e.ID, a.user("ana").ID)

	req := httptest.NewRequest(http.MethodPost, "/events/"+e.ID+"/payments/bulk", io.MultiReader())
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var bulk model.BulkCreateResult
	a.expect(rec, http.StatusOK, &bulk)
	if bulk.Created != 1 {
		t.Fatalf("created = %d, want 1", bulk.Created)
	}
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/payments/bulk", "{"), http.StatusBadRequest, nil)
}

func TestPortfolioRepeatedEventID(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Gig", 40)
	a.confirm(e.ID, a.user("ana").ID)

	var p model.PortfolioSummary
	a.expect(a.do(http.MethodGet, "/portfolio?event_id="+e.ID+","+e.ID, nil), http.StatusOK, &p)
	if p.EventCount != 1 || !p.Expected.Equal(decimal.NewFromInt(40)) {
		t.Errorf("portfolio = %d events, expected %s; want 1 event, 40", p.EventCount, p.Expected)
	}
}

func TestErrorStatusCodes(t *testing.T) {
	a := newAPI(t, service.Options{StrictPayments: true})
	e := a.event("Gig", 40)
	u := a.user("ana")
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/payments", map[string]any{"user_id": u.ID, "amount": 40}), http.StatusCreated, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed body", http.MethodPost, "/events", "{", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/events", `{"name":"x","date":"2026-01-01T00:00:00Z","venue":"y"}`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/events", map[string]any{"date": "2026-01-01T00:00:00Z"}, http.StatusBadRequest},
		{"unknown event", http.MethodGet, "/events/missing", nil, http.StatusNotFound},
		{"unknown user", http.MethodPost, "/events/" + e.ID + "/interest", map[string]string{"user_id": "missing"}, http.StatusNotFound},
		{"missing user", http.MethodPost, "/events/" + e.ID + "/attendance", map[string]string{}, http.StatusBadRequest},
		{"remove unconfirmed attendee", http.MethodDelete, "/events/" + e.ID + "/attendees/" + u.ID, nil, http.StatusNotFound},
		{"negative payment", http.MethodPost, "/events/" + e.ID + "/payments", map[string]any{"user_id": u.ID, "amount": -5}, http.StatusUnprocessableEntity},
		{"unpaid status", http.MethodPost, "/events/" + e.ID + "/payments", map[string]any{"user_id": u.ID, "amount": 5, "payment_status": "unpaid"}, http.StatusBadRequest},
		{"strict duplicate", http.MethodPost, "/events/" + e.ID + "/payments", map[string]any{"user_id": u.ID, "amount": 40}, http.StatusConflict},
		{"duplicate email", http.MethodPost, "/users", map[string]string{"name": "Ana", "email": "ana@club.example"}, http.StatusConflict},
		{"unknown payment", http.MethodGet, "/payments/missing", nil, http.StatusNotFound},
		{"bad expense category", http.MethodPost, "/events/" + e.ID + "/expenses", map[string]any{"category": "misc", "description": "x", "amount": 1}, http.StatusBadRequest},
		{"zero seats", http.MethodPost, "/events/" + e.ID + "/carpool/offers", map[string]any{"user_id": u.ID, "departure_location": "Depot", "available_seats": 0}, http.StatusBadRequest},
		{"bad activity limit", http.MethodGet, "/activity?limit=many", nil, http.StatusBadRequest},
		{"empty portfolio selection", http.MethodGet, "/portfolio?event_id=missing", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
			var body model.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Errorf("error body = %s", rec.Body.String())
			}
		})
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Gig", nil)

	for _, path := range []string{
		"/events/" + e.ID + "/attendees",
		"/events/" + e.ID + "/interested",
		"/events/" + e.ID + "/payments",
		"/events/" + e.ID + "/expenses",
		"/events/" + e.ID + "/carpool/offers",
		"/payments",
	} {
		rec := a.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("%s: body = %s, want []", path, got)
		}
	}
}

func TestParticipationEndpoints(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Quiz night", nil)
	ana, ben := a.user("ana"), a.user("ben")

	var view model.ParticipationView
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/interest", map[string]string{"user_id": ana.ID}), http.StatusOK, &view)
	if view.State != model.StateInterested {
		t.Fatalf("state = %s, want interested", view.State)
	}

	var added model.AddAttendeeResult
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/attendees", map[string]string{"user_id": ben.ID}), http.StatusCreated, &added)
	if added.Participation.State != model.StateConfirmed || added.Payment != nil {
		t.Fatalf("added = %+v", added)
	}

	var available []model.User
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/available-users", nil), http.StatusOK, &available)
	if len(available) != 1 || available[0].ID != ana.ID {
		t.Errorf("available = %+v, want [ana]", available)
	}

	a.expect(a.do(http.MethodDelete, "/events/"+e.ID+"/attendees/"+ben.ID, nil), http.StatusOK, &view)
	if view.Confirmed {
		t.Errorf("still confirmed after removal: %+v", view)
	}

	a.expect(a.do(http.MethodDelete, "/events/"+e.ID+"/interest/"+ana.ID, nil), http.StatusOK, &view)
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/participants/"+ana.ID, nil), http.StatusOK, &view)
	if view.Present || view.State != model.StateNone {
		t.Errorf("participation = %+v, want none", view)
	}

	var got model.Event
	a.expect(a.do(http.MethodGet, "/events/"+e.ID, nil), http.StatusOK, &got)
	if got.InterestedCount != 0 || got.ConfirmedCount != 0 {
		t.Errorf("counts = %d/%d", got.InterestedCount, got.ConfirmedCount)
	}
}

func TestActorHeaderStampsRecords(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Gig", 40)
	u := a.user("ana")

	var p model.PaymentRecord
	rec := a.do(http.MethodPost, "/events/"+e.ID+"/payments", map[string]any{"user_id": u.ID, "amount": "40.00", "payment_status": "paid"}, handler.ActorHeader, "treasurer-1")
	a.expect(rec, http.StatusCreated, &p)
	if p.CreatedBy != "treasurer-1" {
		t.Errorf("created_by = %q", p.CreatedBy)
	}

	var entries []model.Activity
	a.expect(a.do(http.MethodGet, "/activity?limit=1", nil), http.StatusOK, &entries)
	if len(entries) != 1 || entries[0].ActorID != "treasurer-1" || entries[0].Action != "payment.record" {
		t.Errorf("activity = %+v", entries)
	}
}

func TestExpenseEndpoints(t *testing.T) {
	a := newAPI(t, service.Options{})
	e := a.event("Camp", 100)

	var x model.ExpenseRecord
	a.expect(a.do(http.MethodPost, "/events/"+e.ID+"/expenses", map[string]any{"category": "food", "description": "Groceries", "amount": 80}), http.StatusCreated, &x)
	if x.Status != model.ExpensePending {
		t.Errorf("status = %s, want pending", x.Status)
	}
	a.expect(a.do(http.MethodPatch, "/expenses/"+x.ID, map[string]any{"payment_status": "paid"}), http.StatusOK, &x)

	var summary model.ExpenseSummary
	a.expect(a.do(http.MethodGet, "/events/"+e.ID+"/expenses/summary", nil), http.StatusOK, &summary)
	if !summary.Paid.Equal(decimal.NewFromInt(80)) || len(summary.ByCategory) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	a.expect(a.do(http.MethodDelete, "/expenses/"+x.ID, nil), http.StatusNoContent, nil)
	a.expect(a.do(http.MethodGet, "/expenses/"+x.ID, nil), http.StatusNotFound, nil)
}
