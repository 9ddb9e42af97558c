package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/database"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// testPool connects to the database named by LEDGER_TEST_DATABASE_URL and
// applies the schema. Tests using it are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// seedAttendees creates a priced event with n confirmed attendees. Emails are
// unique per run so the tests can share a database.
func seedAttendees(t *testing.T, pool *pgxpool.Pool, n int) (*model.Event, []string) {
	t.Helper()
	ctx := context.Background()
	cost := decimal.NewFromInt(500)
	e, err := repository.NewEventRepository(pool).Create(ctx, model.CreateEventRequest{
		Name: "Lake District hike", Date: time.Now().UTC(), Cost: &cost, Status: model.EventGatheringInterest,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	users := repository.NewUserRepository(pool)
	parts := repository.NewParticipationRepository(pool)
	var ids []string
	for range n {
		u, err := users.Create(ctx, model.CreateUserRequest{Name: "member", Email: uuid.NewString() + "@club.example"})
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		if _, err := parts.Apply(ctx, e.ID, u.ID, model.ConfirmAttendance); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		ids = append(ids, u.ID)
	}
	return e, ids
}

func TestPostgresConcurrentBulkCreate(t *testing.T) {
	pool := testPool(t)
	e, users := seedAttendees(t, pool, 3)
	payments := repository.NewPaymentRepository(pool)
	ctx := context.Background()
	tmpl := model.PaymentRecord{Amount: decimal.NewFromInt(500), Status: model.PaymentPending}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := payments.BulkCreate(ctx, e.ID, tmpl)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			total += len(created)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != len(users) {
		t.Errorf("created %d payments across runs, want %d", total, len(users))
	}
	list, err := payments.List(ctx, model.PaymentFilter{EventID: e.ID})
	if err != nil {
		t.Fatal(err)
	}
	perUser := map[string]int{}
	for _, p := range list {
		perUser[p.UserID]++
	}
	for _, id := range users {
		if perUser[id] != 1 {
			t.Errorf("user %s has %d payments, want 1", id, perUser[id])
		}
	}
}

func TestPostgresStrictCreateRejectsDuplicate(t *testing.T) {
	pool := testPool(t)
	e, users := seedAttendees(t, pool, 1)
	payments := repository.NewPaymentRepository(pool)
	ctx := context.Background()

	first := &model.PaymentRecord{EventID: e.ID, UserID: users[0], Amount: decimal.NewFromInt(500), Status: model.PaymentPaid}
	if err := payments.Create(ctx, first, true); err != nil {
		t.Fatal(err)
	}
	second := &model.PaymentRecord{EventID: e.ID, UserID: users[0], Amount: decimal.NewFromInt(500), Status: model.PaymentPaid}
	if err := payments.Create(ctx, second, true); !errors.Is(err, repository.ErrDuplicatePayment) {
		t.Fatalf("err = %v, want ErrDuplicatePayment", err)
	}
	if err := payments.Create(ctx, second, false); err != nil {
		t.Fatalf("permissive create: %v", err)
	}

	got, err := payments.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("amount = %s, want 500", got.Amount)
	}
}

func TestPostgresEventUpdateKeepsCounts(t *testing.T) {
	pool := testPool(t)
	e, _ := seedAttendees(t, pool, 2)

	got, err := repository.NewEventRepository(pool).Update(context.Background(), e.ID, func(ev *model.Event) error {
		ev.Status = model.EventPrePlanning
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.EventPrePlanning || got.ConfirmedCount != 2 {
		t.Errorf("event = %s with %d confirmed, want pre_planning with 2", got.Status, got.ConfirmedCount)
	}
}
