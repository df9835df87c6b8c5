package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id               TEXT PRIMARY KEY,
	item_code        TEXT NOT NULL UNIQUE,
	item_description TEXT NOT NULL,
	unit             TEXT NOT NULL,
	mrp              DOUBLE PRECISION NOT NULL CHECK (mrp >= 0),
	dp               DOUBLE PRECISION NOT NULL CHECK (dp >= 0),
	nlc              DOUBLE PRECISION NOT NULL CHECK (nlc >= 0),
	percentage       DOUBLE PRECISION NOT NULL CHECK (percentage BETWEEN 0 AND 100),
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'user')),
	email         TEXT UNIQUE,
	phone_number  TEXT UNIQUE,
	password_hash TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);`

// ConnectPostgres opens a pgx-backed *sql.DB and verifies it with a ping.
func ConnectPostgres(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// EnsurePostgresSchema creates the products and users tables when missing.
func EnsurePostgresSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
