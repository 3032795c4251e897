package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS gold_rates (
		id          VARCHAR(36) PRIMARY KEY,
		seq         BIGINT NOT NULL UNIQUE,
		gold_22k    NUMERIC(14,4) NOT NULL,
		silver      NUMERIC(14,4) NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gold_rates_latest ON gold_rates (recorded_at DESC, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS gst (
		id          VARCHAR(36) PRIMARY KEY,
		seq         BIGINT NOT NULL UNIQUE,
		percentage  NUMERIC(7,4) NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gst_latest ON gst (recorded_at DESC, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		name_bn    VARCHAR(100) NOT NULL,
		image      VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             VARCHAR(36) PRIMARY KEY,
		name           VARCHAR(200) NOT NULL,
		name_bn        VARCHAR(200) NOT NULL,
		description    TEXT,
		description_bn TEXT,
		category_id    VARCHAR(36) NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		purity         VARCHAR(10) NOT NULL,
		weight         NUMERIC(12,4) NOT NULL,
		making_charge  NUMERIC(14,4) NOT NULL,
		stock_status   VARCHAR(20) NOT NULL DEFAULT 'In Stock',
		images         TEXT,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS gold_rates (
		id          VARCHAR(36) PRIMARY KEY,
		seq         BIGINT NOT NULL UNIQUE,
		gold_22k    DECIMAL(14,4) NOT NULL,
		silver      DECIMAL(14,4) NOT NULL,
		recorded_at DATETIME(6) NOT NULL,
		INDEX idx_gold_rates_latest (recorded_at, seq)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS gst (
		id          VARCHAR(36) PRIMARY KEY,
		seq         BIGINT NOT NULL UNIQUE,
		percentage  DECIMAL(7,4) NOT NULL,
		recorded_at DATETIME(6) NOT NULL,
		INDEX idx_gst_latest (recorded_at, seq)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		name_bn    VARCHAR(100) NOT NULL,
		image      VARCHAR(500),
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS products (
		id             VARCHAR(36) PRIMARY KEY,
		name           VARCHAR(200) NOT NULL,
		name_bn        VARCHAR(200) NOT NULL,
		description    TEXT,
		description_bn TEXT,
		category_id    VARCHAR(36) NOT NULL,
		purity         VARCHAR(10) NOT NULL,
		weight         DECIMAL(12,4) NOT NULL,
		making_charge  DECIMAL(14,4) NOT NULL,
		stock_status   VARCHAR(20) NOT NULL DEFAULT 'In Stock',
		images         TEXT,
		created_at     DATETIME(6) NOT NULL,
		updated_at     DATETIME(6) NOT NULL,
		INDEX idx_products_category (category_id),
		CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := postgresSchema
	if db.DriverName() == DriverMySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate schema")
		}
	}
	return nil
}
