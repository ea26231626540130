// Package store persists stores, recommendation records, and analytics
// snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	store_id    TEXT PRIMARY KEY,
	shop_domain TEXT NOT NULL UNIQUE,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bundles (
	bundle_id        TEXT PRIMARY KEY,
	store_id         TEXT NOT NULL,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	main_product_id  TEXT NOT NULL,
	member_products  TEXT NOT NULL DEFAULT '[]',
	discount_percent INTEGER NOT NULL,
	priority         INTEGER NOT NULL,
	source           TEXT NOT NULL,
	rationale        TEXT NOT NULL DEFAULT '',
	is_active        INTEGER NOT NULL DEFAULT 1,
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS upsells (
	upsell_id          TEXT PRIMARY KEY,
	store_id           TEXT NOT NULL,
	name               TEXT NOT NULL,
	trigger_product_id TEXT NOT NULL,
	upsell_product_id  TEXT NOT NULL,
	trigger_context    TEXT NOT NULL DEFAULT 'cart',
	discount_percent   INTEGER NOT NULL,
	priority           INTEGER NOT NULL,
	source             TEXT NOT NULL,
	rationale          TEXT NOT NULL DEFAULT '',
	is_active          INTEGER NOT NULL DEFAULT 1,
	created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analytics (
	store_id            TEXT NOT NULL,
	date                TEXT NOT NULL,
	total_revenue       REAL NOT NULL DEFAULT 0,
	bundle_revenue      REAL NOT NULL DEFAULT 0,
	upsell_revenue      REAL NOT NULL DEFAULT 0,
	average_order_value REAL NOT NULL DEFAULT 0,
	bundle_aov          REAL NOT NULL DEFAULT 0,
	upsell_aov          REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (store_id, date)
);
`

// Store wraps the SQLite handle. WAL plus a single connection keeps writers
// from tripping over SQLITE_BUSY.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// EnsureStore returns the store id for a shop domain, creating the row on
// first sight.
func (s *Store) EnsureStore(ctx context.Context, shopDomain string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT store_id FROM stores WHERE shop_domain = ?`, shopDomain)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("lookup store: %w", err)
	}
	id = uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO stores (store_id, shop_domain, created_at) VALUES (?, ?, ?)`,
		id, shopDomain, now())
	if err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	return id, nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func marshalMembers(members []Member) string {
	blob, err := json.Marshal(members)
	if err != nil {
		return "[]"
	}
	return string(blob)
}
