// Package memory keeps the whole ledger in process memory behind a single
// mutex. It satisfies the same contracts as the Postgres repositories and
// backs STORE=memory as well as the service and handler tests.
//
// The mutex plays the role of the event row lock: every mutation runs its
// read-check-write sequence while holding it, so the guarantees the Postgres
// store gets from SELECT ... FOR UPDATE hold here too.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/model"
	"github.com/Shivanand-hulikatti/club-event-ledger/internal/repository"
)

type row[T any] struct {
	seq int64
	v   T
}

type partKey struct {
	eventID string
	userID  string
}

// DB is the shared state behind every memory repository.
type DB struct {
	mu  sync.Mutex
	seq int64

	events   map[string]row[model.Event]
	users    map[string]row[model.User]
	parts    map[partKey]row[model.ParticipationRecord]
	payments map[string]row[model.PaymentRecord]
	expenses map[string]row[model.ExpenseRecord]
	offers   map[string]row[model.CarpoolOffer]
	requests map[string]row[model.CarpoolRequest]
	activity []model.Activity
}

// New returns an empty store.
func New() *DB {
	return &DB{
		events:   make(map[string]row[model.Event]),
		users:    make(map[string]row[model.User]),
		parts:    make(map[partKey]row[model.ParticipationRecord]),
		payments: make(map[string]row[model.PaymentRecord]),
		expenses: make(map[string]row[model.ExpenseRecord]),
		offers:   make(map[string]row[model.CarpoolOffer]),
		requests: make(map[string]row[model.CarpoolRequest]),
	}
}

func (db *DB) next() int64 {
	db.seq++
	return db.seq
}

func now() time.Time {
	return time.Now().UTC()
}

// requireEvent mirrors lockEvent in the Postgres store. Callers hold db.mu.
func (db *DB) requireEvent(eventID string) error {
	if _, ok := db.events[eventID]; !ok {
		return fmt.Errorf("event %s: %w", eventID, repository.ErrNotFound)
	}
	return nil
}

func (db *DB) hasPayment(eventID, userID string) bool {
	for _, r := range db.payments {
		if r.v.EventID == eventID && r.v.UserID == userID {
			return true
		}
	}
	return false
}

// sortedRows returns the values of m ordered by insertion sequence.
func sortedRows[K comparable, T any](m map[K]row[T], keep func(T) bool) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.v)
	}
	return out
}

func reversed[T any](in []T) []T {
	for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
		in[i], in[j] = in[j], in[i]
	}
	return in
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
