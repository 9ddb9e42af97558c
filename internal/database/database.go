// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a libpq-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

const connectAttempts = 5

// NewPool creates and validates a pgxpool connection pool.
// It retries a few times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg Config, log *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		log.Warn("db connect attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max", connectAttempts),
			slog.Any("error", err))
		if attempt < connectAttempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return pool, nil
}

// Migrate creates the ledger schema if it does not exist yet. It is safe to
// run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	phone      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	date       TIMESTAMPTZ NOT NULL,
	cost       NUMERIC(12,2) CHECK (cost >= 0),
	status     TEXT NOT NULL DEFAULT 'gathering_interest',
	capacity   INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS participations (
	event_id   TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	interested BOOLEAN NOT NULL DEFAULT FALSE,
	confirmed  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (event_id, user_id)
);

-- No (event_id, user_id) uniqueness and no reference to participations:
-- payments survive attendee removal.
CREATE TABLE IF NOT EXISTS payments (
	id             TEXT PRIMARY KEY,
	event_id       TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id        TEXT NOT NULL,
	amount         NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
	payment_status TEXT NOT NULL,
	payment_method TEXT,
	payment_date   TIMESTAMPTZ,
	notes          TEXT,
	created_by     TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS expenses (
	id             TEXT PRIMARY KEY,
	event_id       TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	category       TEXT NOT NULL,
	description    TEXT NOT NULL,
	amount         NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
	payment_status TEXT NOT NULL,
	payment_method TEXT,
	paid_by        TEXT,
	expense_date   TIMESTAMPTZ,
	receipt_url    TEXT,
	notes          TEXT,
	created_by     TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS carpool_offers (
	id                 TEXT PRIMARY KEY,
	event_id           TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id            TEXT NOT NULL,
	departure_location TEXT NOT NULL,
	available_seats    INT NOT NULL,
	departure_time     TIMESTAMPTZ,
	notes              TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS carpool_requests (
	id              TEXT PRIMARY KEY,
	event_id        TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	user_id         TEXT NOT NULL,
	pickup_location TEXT NOT NULL,
	notes           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, user_id)
);

CREATE TABLE IF NOT EXISTS activity_log (
	id          TEXT PRIMARY KEY,
	actor_id    TEXT,
	action      TEXT NOT NULL,
	entity_type TEXT,
	entity_id   TEXT,
	details     TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_payments_event ON payments(event_id);
CREATE INDEX IF NOT EXISTS idx_expenses_event ON expenses(event_id);
CREATE INDEX IF NOT EXISTS idx_participations_event ON participations(event_id);
`
