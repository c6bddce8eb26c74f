package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the catalog schema for the connection's driver. Statements
// are idempotent so it is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var statements []string
	switch db.DriverName() {
	case "postgres":
		statements = postgresSchema
	case "sqlite3":
		statements = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		parent_id BIGINT NULL REFERENCES categories(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	`CREATE TABLE IF NOT EXISTS category_relations (
		id            BIGSERIAL PRIMARY KEY,
		ancestor_id   BIGINT NOT NULL REFERENCES categories(id),
		descendant_id BIGINT NOT NULL REFERENCES categories(id),
		depth         INTEGER NOT NULL CHECK (depth >= 0),
		UNIQUE (ancestor_id, descendant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_category_relations_descendant ON category_relations(descendant_id)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		price          NUMERIC NOT NULL CHECK (price >= 0),
		stock          BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		reserved_stock BIGINT NOT NULL DEFAULT 0 CHECK (reserved_stock >= 0),
		category_id    BIGINT NOT NULL,
		version        BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	`CREATE TABLE IF NOT EXISTS discounts (
		id          BIGSERIAL PRIMARY KEY,
		percentage  NUMERIC NOT NULL CHECK (percentage >= 0 AND percentage <= 100),
		description TEXT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_discounts (
		id          BIGSERIAL PRIMARY KEY,
		product_id  BIGINT NOT NULL,
		discount_id BIGINT NOT NULL REFERENCES discounts(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_discounts_pair ON product_discounts(product_id, discount_id)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		status     TEXT NOT NULL DEFAULT 'reserved',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		sale_price NUMERIC NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id)`,
}

// SQLite keeps decimals as TEXT so values round-trip without float conversion.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		name      TEXT NOT NULL,
		parent_id INTEGER NULL REFERENCES categories(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	`CREATE TABLE IF NOT EXISTS category_relations (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		ancestor_id   INTEGER NOT NULL REFERENCES categories(id),
		descendant_id INTEGER NOT NULL REFERENCES categories(id),
		depth         INTEGER NOT NULL CHECK (depth >= 0),
		UNIQUE (ancestor_id, descendant_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_category_relations_descendant ON category_relations(descendant_id)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		name           TEXT NOT NULL,
		price          TEXT NOT NULL,
		stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		reserved_stock INTEGER NOT NULL DEFAULT 0 CHECK (reserved_stock >= 0),
		category_id    INTEGER NOT NULL,
		version        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
	`CREATE TABLE IF NOT EXISTS discounts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		percentage  TEXT NOT NULL,
		description TEXT NULL,
		active      BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS product_discounts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id  INTEGER NOT NULL,
		discount_id INTEGER NOT NULL REFERENCES discounts(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_discounts_pair ON product_discounts(product_id, discount_id)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		status     TEXT NOT NULL DEFAULT 'reserved',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		sale_price TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id)`,
}
