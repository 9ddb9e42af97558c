package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
	"github.com/google/uuid"
)

// EventRepository is the in-memory event store.
type EventRepository struct {
	db *DB
}

// NewEventRepository constructs an EventRepository over db.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

func (db *DB) eventView(e model.Event) model.Event {
	e.Cost = clonePtr(e.Cost)
	e.InterestedCount, e.ConfirmedCount = 0, 0
	for k, r := range db.parts {
		if k.eventID != e.ID {
			continue
		}
		if r.v.Interested {
			e.InterestedCount++
		}
		if r.v.Confirmed {
			e.ConfirmedCount++
		}
	}
	return e
}

// Create stores a new event.
func (r *EventRepository) Create(_ context.Context, req model.CreateEventRequest) (*model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	ts := now()
	e := model.Event{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Date:      req.Date,
		Cost:      clonePtr(req.Cost),
		Status:    req.Status,
		Capacity:  req.Capacity,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	r.db.events[e.ID] = row[model.Event]{seq: r.db.next(), v: e}
	out := r.db.eventView(e)
	return &out, nil
}

// List returns all events ordered by date.
func (r *EventRepository) List(_ context.Context) ([]model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	events := sortedRows(r.db.events, nil)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	for i := range events {
		events[i] = r.db.eventView(events[i])
	}
	return events, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
	}
	e := r.db.eventView(stored.v)
	return &e, nil
}

// Update applies fn to a copy of the event and stores it if fn succeeds.
func (r *EventRepository) Update(_ context.Context, id string, fn func(*model.Event) error) (*model.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
	}
	e := r.db.eventView(stored.v)
	if err := fn(&e); err != nil {
		return nil, err
	}
	e.UpdatedAt = now()
	stored.v = e
	r.db.events[id] = stored

	out := r.db.eventView(e)
	return &out, nil
}

// UserRepository is the in-memory member directory.
type UserRepository struct {
	db *DB
}

// NewUserRepository constructs a UserRepository over db.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create adds a directory entry.
func (r *UserRepository) Create(_ context.Context, req model.CreateUserRequest) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, stored := range r.db.users {
		if stored.v.Email == req.Email {
			return nil, fmt.Errorf("user %s: %w", req.Email, repository.ErrDuplicateUser)
		}
	}

	u := model.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now(),
	}
	r.db.users[u.ID] = row[model.User]{seq: r.db.next(), v: u}
	return &u, nil
}

// GetByID returns a single user or ErrNotFound.
func (r *UserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	u := stored.v
	return &u, nil
}

// List returns every user ordered by name.
func (r *UserRepository) List(_ context.Context) ([]model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users := sortedRows(r.db.users, nil)
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
