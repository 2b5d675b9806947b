package database

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// New opens a pgx-backed *sql.DB and verifies the connection.
func New(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet. Runs on boot,
// idempotent, the same way the models are synced on startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS books (
	code       TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	author     TEXT NOT NULL,
	stock      BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS members (
	code             TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	borrowed_count   INT NOT NULL DEFAULT 0 CHECK (borrowed_count >= 0),
	penalty_duration INT NOT NULL DEFAULT 0 CHECK (penalty_duration >= 0),
	registered_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	unregistered_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS borrowings (
	code        BIGSERIAL PRIMARY KEY,
	book_code   TEXT NOT NULL REFERENCES books (code),
	member_code TEXT NOT NULL REFERENCES members (code),
	borrow_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	return_date TIMESTAMPTZ
);

-- one active loan per (book, member)
CREATE UNIQUE INDEX IF NOT EXISTS idx_borrowings_active
	ON borrowings (book_code, member_code)
	WHERE return_date IS NULL;

CREATE INDEX IF NOT EXISTS idx_borrowings_borrow_date
	ON borrowings (borrow_date DESC);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}
